package api

import (
	"context"
	"net/http"

	"github.com/rpggio/pyeditor/internal/domain/workspace"
)

// Execute runs code in the backend sandbox.
func (c *Client) Execute(ctx context.Context, code string, lang workspace.Language) (workspace.Execution, error) {
	var result workspace.Execution
	req := c.request(ctx).SetBody(map[string]string{
		"code":     code,
		"language": string(lang),
	})
	if err := c.call(req, http.MethodPost, "/execute", &result); err != nil {
		return workspace.Execution{}, err
	}
	return result, nil
}
