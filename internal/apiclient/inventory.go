package apiclient

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"

	"admin-console/internal/model"
)

const (
	readRetries  = 2
	writeRetries = 1
)

// GetCategories returns the records as the inventory service sends them,
// flat or nested.
func (c *Client) GetCategories(ctx context.Context) ([]model.CategoryRecord, error) {
	var records []model.CategoryRecord
	err := c.Do(ctx, Request{Method: http.MethodGet, Path: EndpointCategories, Retries: readRetries}, &records)
	return records, err
}

func (c *Client) CreateCategory(ctx context.Context, req model.CategoryRequest) (model.CategoryRecord, error) {
	var record model.CategoryRecord
	err := c.Do(ctx, Request{Method: http.MethodPost, Path: EndpointCategories, Body: req, Retries: writeRetries}, &record)
	return record, err
}

func (c *Client) UpdateCategory(ctx context.Context, id string, req model.CategoryRequest) (model.CategoryRecord, error) {
	var record model.CategoryRecord
	err := c.Do(ctx, Request{Method: http.MethodPut, Path: CategoryByID(id), Body: req, Retries: writeRetries}, &record)
	return record, err
}

func (c *Client) DeleteCategory(ctx context.Context, id string) error {
	return c.Do(ctx, Request{Method: http.MethodDelete, Path: CategoryByID(id), Retries: writeRetries}, nil)
}

func (c *Client) CreateProduct(ctx context.Context, req model.ProductRequest) (model.Product, error) {
	req.Normalize()
	var product model.Product
	err := c.Do(ctx, Request{Method: http.MethodPost, Path: EndpointInventoryProducts, Body: req, Retries: writeRetries}, &product)
	return product, err
}

func (c *Client) UpdateProduct(ctx context.Context, id string, req model.ProductRequest) (model.Product, error) {
	req.Normalize()
	var product model.Product
	err := c.Do(ctx, Request{Method: http.MethodPut, Path: InventoryProductByID(id), Body: req, Retries: writeRetries}, &product)
	return product, err
}

func (c *Client) DeleteProduct(ctx context.Context, id string) error {
	return c.Do(ctx, Request{Method: http.MethodDelete, Path: InventoryProductByID(id), Retries: writeRetries}, nil)
}

// ImageFile is one part of an image upload.
type ImageFile struct {
	Name        string
	ContentType string
	Data        []byte
}

// UploadImages sends files as repeated "images" multipart fields and returns
// the hosted URLs in upload order.
func (c *Client) UploadImages(ctx context.Context, files []ImageFile) (model.UploadImagesResponse, error) {
	if len(files) == 0 {
		return model.UploadImagesResponse{}, model.ErrNoImages
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for _, f := range files {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="images"; filename=%q`, f.Name))
		header.Set("Content-Type", f.ContentType)

		part, err := mw.CreatePart(header)
		if err != nil {
			return model.UploadImagesResponse{}, fmt.Errorf("build upload body: %w", err)
		}
		if _, err := part.Write(f.Data); err != nil {
			return model.UploadImagesResponse{}, fmt.Errorf("build upload body: %w", err)
		}
	}
	if err := mw.Close(); err != nil {
		return model.UploadImagesResponse{}, fmt.Errorf("build upload body: %w", err)
	}

	var resp model.UploadImagesResponse
	err := c.Do(ctx, Request{
		Method:      http.MethodPost,
		Path:        EndpointProductImages,
		RawBody:     buf.Bytes(),
		ContentType: mw.FormDataContentType(),
	}, &resp)
	return resp, err
}
