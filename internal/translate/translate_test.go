package translate

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const helloResponse = `{
	"errorCode": "0",
	"query": "hello",
	"translation": ["你好"],
	"basic": {"us-phonetic": "həˈloʊ", "uk-phonetic": "həˈləʊ", "explains": ["int. 喂；哈罗", "n. 表示问候"]},
	"web": [{"key": "Hello", "value": ["你好", "您好"]}],
	"l": "en2zh-CHS",
	"dict": {"url": "yddict://m.youdao.com/dict?le=eng&q=hello"},
	"webdict": {"url": "http://m.youdao.com/dict?le=eng&q=hello"}
}`

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"hello", "hello"},
		{"exactly twenty chars", "exactly twenty chars"},
		{"abcdefghijklmnopqrstu", "abcdefghij21lmnopqrstu"},
		{"There's nothing to tell, he's just some guy", "There's no43t some guy"},
		{"一二三四五六七八九十甲乙丙丁戊己庚辛壬癸子", "一二三四五六七八九十21乙丙丁戊己庚辛壬癸子"},
		{"😀😀😀😀😀😀😀😀😀😀", "😀😀😀😀😀😀😀😀😀😀"},
		{"😀😀😀😀😀😀😀😀😀😀😁", "😀😀😀😀😀22😀😀😀😀😁"},
		{"abcdefghijklmnopqrs😀", "abcdefghij21lmnopqrs😀"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Truncate(tt.in))
		})
	}
}

func TestSign(t *testing.T) {
	sum := sha256.Sum256([]byte("key" + "abcdefghij21lmnopqrstu" + "salt" + "1700000000" + "secret"))
	assert.Equal(t, hex.EncodeToString(sum[:]), Sign("key", "abcdefghijklmnopqrstu", "salt", "1700000000", "secret"))
}

func newTestYoudao(t *testing.T, handler http.HandlerFunc) (*YoudaoClient, *int32) {
	t.Helper()
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	c := NewYoudaoClient(YoudaoConfig{Endpoint: srv.URL, AppKey: "key", Secret: "secret"})
	c.now = func() time.Time { return time.Unix(1700000000, 0) }
	c.salt = func() string { return "fixed-salt" }
	return c, &calls
}

func TestYoudaoTranslate(t *testing.T) {
	c, calls := newTestYoudao(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "hello", r.PostForm.Get("q"))
		assert.Equal(t, "en", r.PostForm.Get("from"))
		assert.Equal(t, "zh-CHS", r.PostForm.Get("to"))
		assert.Equal(t, "key", r.PostForm.Get("appKey"))
		assert.Equal(t, "fixed-salt", r.PostForm.Get("salt"))
		assert.Equal(t, "v3", r.PostForm.Get("signType"))
		assert.Equal(t, "1700000000", r.PostForm.Get("curtime"))
		assert.Equal(t, Sign("key", "hello", "fixed-salt", "1700000000", "secret"), r.PostForm.Get("sign"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(helloResponse))
	})

	result, err := c.Translate(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(calls))

	assert.Equal(t, "你好", result.FirstTranslation())
	assert.Equal(t, "həˈloʊ", result.Phonetic())
	assert.Equal(t, []string{"int. 喂；哈罗", "n. 表示问候"}, result.Explains())
	require.Len(t, result.Web, 1)
	assert.Equal(t, []string{"你好", "您好"}, result.Web[0].Value)
	assert.Equal(t, "en2zh-CHS", result.L)
	require.NotNil(t, result.WebDict)
}

func TestYoudaoEmptyInputMakesNoRequest(t *testing.T) {
	c, calls := newTestYoudao(t, func(w http.ResponseWriter, r *http.Request) {})

	for _, text := range []string{"", "   ", "\n"} {
		_, err := c.Translate(context.Background(), text)
		assert.ErrorIs(t, err, ErrEmptyInput)
	}
	assert.Equal(t, int32(0), atomic.LoadInt32(calls))
}

func TestYoudaoErrors(t *testing.T) {
	t.Run("error code", func(t *testing.T) {
		c, _ := newTestYoudao(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"errorCode": "108"}`))
		})
		_, err := c.Translate(context.Background(), "hello")

		var se *ServiceError
		require.True(t, errors.As(err, &se))
		assert.Equal(t, "108", se.Code)
		assert.True(t, IsServiceError(err))
	})

	t.Run("http status", func(t *testing.T) {
		c, _ := newTestYoudao(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
		_, err := c.Translate(context.Background(), "hello")

		var se *ServiceError
		require.True(t, errors.As(err, &se))
		assert.Equal(t, http.StatusServiceUnavailable, se.Status)
	})

	t.Run("bad json", func(t *testing.T) {
		c, _ := newTestYoudao(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`not json`))
		})
		_, err := c.Translate(context.Background(), "hello")
		assert.ErrorIs(t, err, ErrTransport)
	})

	t.Run("unreachable", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		srv.Close()
		c := NewYoudaoClient(YoudaoConfig{Endpoint: srv.URL, AppKey: "key", Secret: "secret"})
		_, err := c.Translate(context.Background(), "hello")
		assert.ErrorIs(t, err, ErrTransport)
	})

	t.Run("not configured", func(t *testing.T) {
		c := NewYoudaoClient(YoudaoConfig{})
		assert.False(t, c.IsConfigured())
		_, err := c.Translate(context.Background(), "hello")
		assert.ErrorIs(t, err, ErrTransport)
	})
}

func TestRelayClient(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		assert.Equal(t, RelayPath, r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req RelayRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if req.Text == "fail" {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(helloResponse))
	}))
	defer srv.Close()

	c := NewRelayClient(srv.URL + "/")

	result, err := c.Translate(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, "hello", result.Query)

	_, err = c.Translate(context.Background(), "fail")
	assert.True(t, IsServiceError(err))

	_, err = c.Translate(context.Background(), " ")
	assert.ErrorIs(t, err, ErrEmptyInput)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestResultAccessorsOnEmpty(t *testing.T) {
	var r *Result
	assert.Equal(t, "", r.FirstTranslation())
	assert.Equal(t, "", r.Phonetic())
	assert.Nil(t, r.Explains())

	r = &Result{Basic: &Basic{Phonetic: "p", UKPhonetic: "uk"}}
	assert.Equal(t, "p", r.Phonetic())
}
