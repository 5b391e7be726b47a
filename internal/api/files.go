package api

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/rpggio/pyeditor/internal/domain/workspace"
)

type filesData struct {
	Files []workspace.FileRecord `json:"files"`
}

type fileData struct {
	File workspace.FileRecord `json:"file"`
}

type contentData struct {
	Content string `json:"content"`
}

type createFileBody struct {
	Name     string             `json:"name"`
	Type     workspace.Kind     `json:"type"`
	ParentID string             `json:"parent_id,omitempty"`
	Content  *string            `json:"content,omitempty"`
	Language workspace.Language `json:"language,omitempty"`
}

// ListFiles returns the flat record list, scoped to a project when projectID is set.
func (c *Client) ListFiles(ctx context.Context, projectID string) ([]workspace.FileRecord, error) {
	req := c.request(ctx)
	if projectID != "" {
		req.SetQueryParam("project_id", projectID)
	}
	var data filesData
	if err := c.call(req, http.MethodGet, "/files", &data); err != nil {
		return nil, err
	}
	if data.Files == nil {
		return []workspace.FileRecord{}, nil
	}
	return data.Files, nil
}

// GetContent fetches the body of one file.
func (c *Client) GetContent(ctx context.Context, id string) (string, error) {
	var data contentData
	req := c.request(ctx).SetPathParam("id", id)
	if err := c.call(req, http.MethodGet, "/files/{id}", &data); err != nil {
		return "", err
	}
	return data.Content, nil
}

// CreateFile creates a file, folder or project record.
func (c *Client) CreateFile(ctx context.Context, r workspace.CreateRequest) (workspace.FileRecord, error) {
	body := createFileBody{
		Name:     r.Name,
		Type:     r.Kind,
		ParentID: r.ParentID,
		Content:  r.Content,
		Language: r.Language,
	}
	var data fileData
	req := c.request(ctx).SetBody(body)
	if err := c.call(req, http.MethodPost, "/files", &data); err != nil {
		return workspace.FileRecord{}, err
	}
	return data.File, nil
}

// UpdateContent replaces the body of a file.
func (c *Client) UpdateContent(ctx context.Context, id, content string) error {
	req := c.request(ctx).
		SetPathParam("id", id).
		SetBody(map[string]string{"content": content})
	return c.call(req, http.MethodPut, "/files/{id}", nil)
}

// Rename changes the display name of a record.
func (c *Client) Rename(ctx context.Context, id, name string) error {
	req := c.request(ctx).
		SetPathParam("id", id).
		SetBody(map[string]string{"name": name})
	return c.call(req, http.MethodPut, "/files/{id}/rename", nil)
}

// Delete removes a record and its descendants.
func (c *Client) Delete(ctx context.Context, id string) error {
	req := c.request(ctx).SetPathParam("id", id)
	return c.call(req, http.MethodDelete, "/files/{id}", nil)
}

// Download streams the raw file body to w and returns the bytes written.
func (c *Client) Download(ctx context.Context, id string, w io.Writer) (int64, error) {
	const path = "/files/{id}/download"
	resp, err := c.request(ctx).
		SetPathParam("id", id).
		SetHeader("Accept", "*/*").
		SetDoNotParseResponse(true).
		Get(path)
	if err != nil {
		return 0, fmt.Errorf("%w: GET %s: %w", ErrTransport, path, err)
	}
	body := resp.RawBody()
	defer body.Close()

	if resp.IsError() {
		var env envelope
		if isJSON(resp) {
			_ = decodeJSON(body, &env)
		}
		return 0, &Error{Status: resp.StatusCode(), Method: http.MethodGet, Path: path, Message: env.Message}
	}

	n, err := io.Copy(w, body)
	if err != nil {
		return n, fmt.Errorf("%w: GET %s: %w", ErrTransport, path, err)
	}
	return n, nil
}
