package validators

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	pkgerrors "github.com/angelmondragon/b2b-portal/pkg/errors"
)

type testItem struct {
	SKU      string `json:"sku" validate:"required"`
	Quantity int    `json:"quantity" validate:"gt=0"`
}

type testBody struct {
	Items  []testItem `json:"items" validate:"required,min=1,dive"`
	Method string     `json:"method" validate:"required"`
}

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")

func imagesOnly(contentType string) bool {
	return strings.HasPrefix(contentType, "image/")
}

func detailsOf(t *testing.T, err error) map[string]string {
	t.Helper()
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeValidation, typed.Code())
	details, ok := typed.Details().(map[string]string)
	require.True(t, ok, "unexpected details %T", typed.Details())
	return details
}

func TestDecodeJSONBodyRejectsUnknownFields(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"items":[{"sku":"a","quantity":1}],"method":"x","extra":true}`))
	var body testBody
	err := DecodeJSONBody(req, &body)
	require.Error(t, err)
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestDecodeJSONBodyReportsNestedFieldPaths(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"items":[{"sku":"a","quantity":0}]}`))
	var body testBody
	details := detailsOf(t, DecodeJSONBody(req, &body))
	require.Equal(t, "must be greater than 0", details["items[0].quantity"])
	require.Equal(t, "is required", details["method"])
}

func TestDecodeJSONBodyRejectsTrailingDocuments(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"items":[{"sku":"a","quantity":1}],"method":"x"} {}`))
	var body testBody
	require.Error(t, DecodeJSONBody(req, &body))
}

func TestParseQueryInt(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?limit=25&bad=x", nil)

	v, err := ParseQueryInt(req, "limit", 20, 1, 100)
	require.NoError(t, err)
	require.Equal(t, 25, v)

	v, err = ParseQueryInt(req, "missing", 20, 1, 100)
	require.NoError(t, err)
	require.Equal(t, 20, v)

	_, err = ParseQueryInt(req, "bad", 20, 1, 100)
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	_, err = ParseQueryInt(req, "limit", 20, 1, 10)
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func multipartRequest(t *testing.T, order string, file []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	if order != "" {
		require.NoError(t, writer.WriteField("order", order))
	}
	if file != nil {
		part, err := writer.CreateFormFile("evidence", "comprobante.png")
		require.NoError(t, err)
		_, err = part.Write(file)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func TestDecodeMultipartReadsJSONAndFile(t *testing.T) {
	req := multipartRequest(t, `{"items":[{"sku":"a","quantity":2}],"method":"transferencia"}`, pngHeader)
	require.True(t, IsMultipart(req))

	var body testBody
	file, err := DecodeMultipart(httptest.NewRecorder(), req, "order", &body, FileRule{Field: "evidence", MaxBytes: 1024, Allowed: imagesOnly})
	require.NoError(t, err)
	require.Equal(t, "transferencia", body.Method)
	require.NotNil(t, file)
	require.Equal(t, "image/png", file.ContentType)
	require.Equal(t, "comprobante.png", file.Filename)
	require.Equal(t, int64(len(pngHeader)), file.Size)
}

func TestDecodeMultipartWithoutFile(t *testing.T) {
	req := multipartRequest(t, `{"items":[{"sku":"a","quantity":2}],"method":"credito"}`, nil)
	var body testBody
	file, err := DecodeMultipart(httptest.NewRecorder(), req, "order", &body, FileRule{Field: "evidence", MaxBytes: 1024})
	require.NoError(t, err)
	require.Nil(t, file)
}

func TestDecodeMultipartRequiresOrderPart(t *testing.T) {
	req := multipartRequest(t, "", pngHeader)
	var body testBody
	_, err := DecodeMultipart(httptest.NewRecorder(), req, "order", &body, FileRule{Field: "evidence", MaxBytes: 1024})
	details := detailsOf(t, err)
	require.Equal(t, "is required", details["order"])
}

func TestDecodeMultipartRejectsOversizedFile(t *testing.T) {
	req := multipartRequest(t, `{"items":[{"sku":"a","quantity":2}],"method":"credito"}`, bytes.Repeat([]byte("a"), 64))
	var body testBody
	_, err := DecodeMultipart(httptest.NewRecorder(), req, "order", &body, FileRule{Field: "evidence", MaxBytes: 16})
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
	require.Equal(t, "file too large", pkgerrors.As(err).Message())
}

func TestDecodeMultipartRejectsSniffedType(t *testing.T) {
	req := multipartRequest(t, `{"items":[{"sku":"a","quantity":2}],"method":"credito"}`, []byte("plain text pretending to be a png"))
	var body testBody
	_, err := DecodeMultipart(httptest.NewRecorder(), req, "order", &body, FileRule{Field: "evidence", MaxBytes: 1024, Allowed: imagesOnly})
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
	require.Equal(t, "unsupported file type", pkgerrors.As(err).Message())
}
