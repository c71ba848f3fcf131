package endpoint

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type requestSpec struct {
	method  string
	path    string
	body    interface{}
	headers map[string]string
}

func performRequest(r *gin.Engine, spec requestSpec) (*httptest.ResponseRecorder, map[string]interface{}, error) {
	var reader *strings.Reader
	setJSONHeader := false
	switch v := spec.body.(type) {
	case nil:
		reader = strings.NewReader("")
	case string:
		reader = strings.NewReader(v)
		setJSONHeader = true
	default:
		b, _ := json.Marshal(spec.body)
		reader = strings.NewReader(string(b))
		setJSONHeader = true
	}

	req := httptest.NewRequest(spec.method, spec.path, reader)
	if setJSONHeader {
		req.Header.Set("Content-Type", "application/json")
	}
	for key, value := range spec.headers {
		req.Header.Set(key, value)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var response map[string]interface{}
	if w.Body.Len() > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
			return w, nil, err
		}
	}
	return w, response, nil
}

// mustRequest performs the request and checks the status code.
func mustRequest(t *testing.T, r *gin.Engine, spec requestSpec, wantStatus int) map[string]interface{} {
	t.Helper()
	w, resp, err := performRequest(r, spec)
	require.NoError(t, err)
	require.Equal(t, wantStatus, w.Code, w.Body.String())
	if wantStatus < 300 {
		assert.Equal(t, true, resp["success"])
	} else {
		assert.Equal(t, false, resp["success"])
	}
	return resp
}

func dataMap(t *testing.T, resp map[string]interface{}) map[string]interface{} {
	t.Helper()
	m, ok := resp["data"].(map[string]interface{})
	require.True(t, ok, "data is %T", resp["data"])
	return m
}

func dataList(t *testing.T, resp map[string]interface{}) []interface{} {
	t.Helper()
	l, ok := resp["data"].([]interface{})
	require.True(t, ok, "data is %T", resp["data"])
	return l
}

// idOf reads a JSON number field as uint.
func idOf(t *testing.T, m map[string]interface{}, key string) uint {
	t.Helper()
	v, ok := m[key].(float64)
	require.True(t, ok, "%s is %T", key, m[key])
	return uint(v)
}
