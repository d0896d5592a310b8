package gateway

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

const listPageSize = 300

type listResponse struct {
	Documents     []remoteDocument `json:"documents"`
	NextPageToken string           `json:"nextPageToken"`
}

func (c *Client) docURL(collection, id string) string {
	return c.documentsBase + "/" + url.PathEscape(collection) + "/" + url.PathEscape(id)
}

func (c *Client) GetDocument(ctx context.Context, collection, id string) (Document, error) {
	var doc remoteDocument
	err := c.doJSON(ctx, http.MethodGet, c.docURL(collection, id), nil, &doc, true, nil)
	if err != nil {
		if IsNotFound(err) {
			return Document{}, notFound(collection, id)
		}
		return Document{}, err
	}
	return Document{ID: docID(doc.Name, id), Fields: decodeFields(doc.Fields)}, nil
}

// SetDocument replaces the whole document, creating it when absent.
func (c *Client) SetDocument(ctx context.Context, collection, id string, rec Record) error {
	fields, err := encodeFields(rec)
	if err != nil {
		return &RemoteError{Kind: RemoteUnknown, Err: err}
	}
	return c.doJSON(ctx, http.MethodPatch, c.docURL(collection, id),
		remoteDocument{Fields: fields}, nil, true, nil)
}

// AddDocument creates a document with a server-assigned id.
func (c *Client) AddDocument(ctx context.Context, collection string, rec Record) (string, error) {
	fields, err := encodeFields(rec)
	if err != nil {
		return "", &RemoteError{Kind: RemoteUnknown, Err: err}
	}
	var doc remoteDocument
	err = c.doJSON(ctx, http.MethodPost, c.documentsBase+"/"+url.PathEscape(collection),
		remoteDocument{Fields: fields}, &doc, true, nil)
	if err != nil {
		return "", err
	}
	id := docID(doc.Name, "")
	c.log.Debug().Str("collection", collection).Str("id", id).Msg("document added")
	return id, nil
}

func (c *Client) ListDocuments(ctx context.Context, collection string) ([]Document, error) {
	var out []Document
	token := ""
	for {
		q := url.Values{}
		q.Set("pageSize", strconv.Itoa(listPageSize))
		if token != "" {
			q.Set("pageToken", token)
		}
		var page listResponse
		err := c.doJSON(ctx, http.MethodGet,
			c.documentsBase+"/"+url.PathEscape(collection)+"?"+q.Encode(), nil, &page, true, nil)
		if err != nil {
			return nil, err
		}
		for _, d := range page.Documents {
			out = append(out, Document{ID: docID(d.Name, ""), Fields: decodeFields(d.Fields)})
		}
		if page.NextPageToken == "" {
			return out, nil
		}
		token = page.NextPageToken
	}
}

// UpdateDocument merges patch into an existing document. A missing document
// is reported as RemoteNotFound.
func (c *Client) UpdateDocument(ctx context.Context, collection, id string, patch Record) error {
	fields, err := encodeFields(patch)
	if err != nil {
		return &RemoteError{Kind: RemoteUnknown, Err: err}
	}
	q := url.Values{}
	for _, p := range fieldPaths(patch) {
		q.Add("updateMask.fieldPaths", p)
	}
	q.Set("currentDocument.exists", "true")
	err = c.doJSON(ctx, http.MethodPatch, c.docURL(collection, id)+"?"+q.Encode(),
		remoteDocument{Fields: fields}, nil, true, nil)
	if IsNotFound(err) {
		return notFound(collection, id)
	}
	return err
}

func (c *Client) DeleteDocument(ctx context.Context, collection, id string) error {
	return c.doJSON(ctx, http.MethodDelete, c.docURL(collection, id), nil, nil, true, nil)
}

// docID returns the last path segment of a Firestore resource name.
func docID(name, fallback string) string {
	if name == "" {
		return fallback
	}
	return name[strings.LastIndex(name, "/")+1:]
}

var (
	_ Gateway = (*Client)(nil)
	_ Gateway = (*Memory)(nil)
)
