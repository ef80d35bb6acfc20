// Package client 提供面向展示层的编排器：封装生命周期 API 调用、
// 上传进度跟踪与本地状态归并.
package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/bytedance/sonic"

	"github.com/yeisme/cloudspace/pkg/internal/types"
)

const defaultTimeout = 30 * time.Second

// TokenProvider 返回请求所用的 bearer token，返回空串表示匿名.
type TokenProvider func(ctx context.Context) (string, error)

// APIError 携带服务端返回的状态码与错误消息.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error: status=%d message=%s", e.Status, e.Message)
}

// API 是生命周期服务的 HTTP 客户端.
type API struct {
	baseURL string
	httpc   *http.Client
	token   TokenProvider
}

// APIOption 配置 API 客户端.
type APIOption func(*API)

// WithHTTPClient 替换底层 http.Client.
func WithHTTPClient(c *http.Client) APIOption {
	return func(a *API) { a.httpc = c }
}

// WithTokenProvider 设置 bearer token 来源.
func WithTokenProvider(tp TokenProvider) APIOption {
	return func(a *API) { a.token = tp }
}

// NewAPI 创建 API 客户端，baseURL 形如 http://host:port（不含 /api/v1）.
func NewAPI(baseURL string, opts ...APIOption) *API {
	a := &API{
		baseURL: baseURL,
		httpc:   &http.Client{Timeout: defaultTimeout},
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// doJSON 发送 JSON 请求并解析 JSON 响应，非 2xx 映射为 *APIError.
func (a *API) doJSON(ctx context.Context, method, path string, query url.Values, body, out any) error {
	u := a.baseURL + "/api/v1" + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader

	if body != nil {
		raw, err := sonic.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}

		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if a.token != nil {
		tok, err := a.token(ctx)
		if err != nil {
			return fmt.Errorf("resolve token: %w", err)
		}

		if tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	resp, err := a.httpc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		msg := string(raw)

		var body struct {
			Error string `json:"error"`
		}
		if sonic.Unmarshal(raw, &body) == nil && body.Error != "" {
			msg = body.Error
		}

		return &APIError{Status: resp.StatusCode, Message: msg}
	}

	if out == nil {
		return nil
	}

	return sonic.Unmarshal(raw, out)
}

// CreateUploadURL 申请预签名上传链接.
func (a *API) CreateUploadURL(ctx context.Context, req *types.UploadURLRequest) (*types.UploadURLResponse, error) {
	var resp types.UploadURLResponse
	if err := a.doJSON(ctx, http.MethodPost, "/upload-url", nil, req, &resp); err != nil {
		return nil, err
	}

	return &resp, nil
}

// ConfirmUpload 确认对象已写入，激活文件.
func (a *API) ConfirmUpload(ctx context.Context, fileID string) (*types.ConfirmUploadResponse, error) {
	var resp types.ConfirmUploadResponse

	req := types.ConfirmUploadRequest{FileID: fileID}
	if err := a.doJSON(ctx, http.MethodPost, "/confirm-upload", nil, &req, &resp); err != nil {
		return nil, err
	}

	return &resp, nil
}

// ListFiles 查询文件列表.
func (a *API) ListFiles(ctx context.Context, req types.ListFilesRequest) (*types.ListFilesResponse, error) {
	q := url.Values{}

	if req.Trash {
		q.Set("trash", "true")
	}

	if req.Recent {
		q.Set("recent", "true")
	}

	if req.Folder != "" {
		q.Set("folder", req.Folder)
	}

	if req.Page > 0 {
		q.Set("page", strconv.Itoa(req.Page))
		q.Set("size", strconv.Itoa(req.Size))
	}

	var resp types.ListFilesResponse
	if err := a.doJSON(ctx, http.MethodGet, "/files", q, nil, &resp); err != nil {
		return nil, err
	}

	return &resp, nil
}

// DownloadURL 申请预签名下载链接.
func (a *API) DownloadURL(ctx context.Context, fileID string) (*types.DownloadURLResponse, error) {
	q := url.Values{"fileId": []string{fileID}}

	var resp types.DownloadURLResponse
	if err := a.doJSON(ctx, http.MethodGet, "/download-url", q, nil, &resp); err != nil {
		return nil, err
	}

	return &resp, nil
}

// StorageUsage 查询存储用量.
func (a *API) StorageUsage(ctx context.Context) (*types.StorageUsageResponse, error) {
	var resp types.StorageUsageResponse
	if err := a.doJSON(ctx, http.MethodGet, "/storage-usage", nil, nil, &resp); err != nil {
		return nil, err
	}

	return &resp, nil
}

// TrashFile 移入回收站.
func (a *API) TrashFile(ctx context.Context, fileID string) error {
	req := types.FileActionRequest{FileID: fileID}

	return a.doJSON(ctx, http.MethodPost, "/delete-file", nil, &req, nil)
}

// RestoreFile 从回收站恢复.
func (a *API) RestoreFile(ctx context.Context, fileID string) error {
	req := types.FileActionRequest{FileID: fileID}

	return a.doJSON(ctx, http.MethodPost, "/restore-file", nil, &req, nil)
}

// PermanentDelete 永久删除文件与对象.
func (a *API) PermanentDelete(ctx context.Context, fileID string) error {
	req := types.FileActionRequest{FileID: fileID}

	return a.doJSON(ctx, http.MethodPost, "/permanent-delete", nil, &req, nil)
}

// EmptyTrash 清空回收站，返回受影响的条数.
func (a *API) EmptyTrash(ctx context.Context) (int, error) {
	var resp types.EmptyTrashResponse
	if err := a.doJSON(ctx, http.MethodPost, "/empty-trash", nil, nil, &resp); err != nil {
		return 0, err
	}

	return resp.Affected, nil
}

// CreateFolder 创建文件夹.
func (a *API) CreateFolder(ctx context.Context, path string) (*types.CreateFolderResponse, error) {
	req := types.CreateFolderRequest{Path: path}

	var resp types.CreateFolderResponse
	if err := a.doJSON(ctx, http.MethodPost, "/create-folder", nil, &req, &resp); err != nil {
		return nil, err
	}

	return &resp, nil
}

// RenameFile 重命名文件（仅元数据）.
func (a *API) RenameFile(ctx context.Context, fileID, newName string) error {
	req := types.RenameFileRequest{FileID: fileID, NewName: newName}

	return a.doJSON(ctx, http.MethodPost, "/rename-file", nil, &req, nil)
}

// UploadBlob 用预签名链接把内容直传对象存储，边传边上报进度.
// progress 回调参数为已传字节与总字节（总字节未知时为 -1）.
func (a *API) UploadBlob(ctx context.Context, uploadURL, contentType string, size int64, r io.Reader, progress func(done, total int64)) error {
	body := io.Reader(r)
	if progress != nil {
		body = &progressReader{r: r, total: size, report: progress}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, uploadURL, body)
	if err != nil {
		return err
	}

	if size >= 0 {
		req.ContentLength = size
	}

	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := a.httpc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

		return &APIError{Status: resp.StatusCode, Message: string(raw)}
	}

	return nil
}
