package api

import (
	"context"
	"net/http"

	"github.com/rpggio/pyeditor/internal/domain/project"
)

// CreateProject creates a project folder and its main.py.
func (c *Client) CreateProject(ctx context.Context, name, projectType string) (*project.Created, error) {
	var data project.Created
	req := c.request(ctx).SetBody(map[string]string{
		"name": name,
		"type": projectType,
	})
	if err := c.call(req, http.MethodPost, "/projects", &data); err != nil {
		return nil, err
	}
	return &data, nil
}
