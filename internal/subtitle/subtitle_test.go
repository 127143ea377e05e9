package subtitle

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"testing/fstest"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/traditionalchinese"
	"golang.org/x/text/encoding/unicode"

	"github.com/shapedtime/cuewords/internal/catalog"
	"github.com/shapedtime/cuewords/internal/dialogue"
	"github.com/shapedtime/cuewords/internal/metrics"
)

const episodeScript = "[Script Info]\n" +
	"Title: S01E01\n" +
	"\n" +
	"[Events]\n" +
	"Format: Layer, Start, End, Style, Name, MarginL, MarginR, MarginV, Effect, Text\n" +
	"Dialogue: 0,0:00:01.00,0:00:02.50,Default,,0,0,0,,{\\fn华文楷体}你好\\N{\\fnCronos Pro Subhead}Hello\n" +
	"Dialogue: 0,0:00:03.00,0:00:04.00,Default,,0,0,0,,{\\fn华文楷体}只有中文\n" +
	"Dialogue: 0,0:00:05.00,0:00:09.00,Default,,0,0,0,,{\\fn华文楷体}再见\\N{\\fnCronos Pro Subhead}Goodbye, then\n"

var s01e01 = catalog.Selection{Season: 1, Episode: 1}

func TestFileLoader(t *testing.T) {
	fsys := fstest.MapFS{
		"S01E01.ass": {Data: []byte("content")},
	}
	l := NewFileLoader(fsys, "")

	data, err := l.Load(context.Background(), s01e01)
	require.NoError(t, err)
	assert.Equal(t, "content", string(data))

	_, err = l.Load(context.Background(), catalog.Selection{Season: 1, Episode: 2})
	assert.ErrorIs(t, err, ErrNotFound)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = l.Load(ctx, s01e01)
	assert.ErrorIs(t, err, ErrTransport)
}

func TestHTTPLoader(t *testing.T) {
	var requests []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests = append(requests, r.URL.Path)
		switch r.URL.Path {
		case "/subtitles/S01E01.ass":
			w.Write([]byte("content"))
		case "/subtitles/S01E03.ass":
			w.WriteHeader(http.StatusInternalServerError)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	l := NewHTTPLoader(srv.URL+"/", "")

	data, err := l.Load(context.Background(), s01e01)
	require.NoError(t, err)
	assert.Equal(t, "content", string(data))

	// no caching: a second call is a second request
	_, err = l.Load(context.Background(), s01e01)
	require.NoError(t, err)

	_, err = l.Load(context.Background(), catalog.Selection{Season: 1, Episode: 2})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = l.Load(context.Background(), catalog.Selection{Season: 1, Episode: 3})
	assert.ErrorIs(t, err, ErrTransport)
	assert.False(t, errors.Is(err, ErrNotFound))

	assert.Equal(t, []string{
		"/subtitles/S01E01.ass",
		"/subtitles/S01E01.ass",
		"/subtitles/S01E02.ass",
		"/subtitles/S01E03.ass",
	}, requests)
}

func TestHTTPLoaderRejectsOversizedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("0123456789"))
	}))
	defer srv.Close()

	l := NewHTTPLoader(srv.URL, "ass")

	l.maxBytes = 10
	data, err := l.Load(context.Background(), s01e01)
	require.NoError(t, err, "exactly at the limit")
	assert.Len(t, data, 10)

	l.maxBytes = 9
	_, err = l.Load(context.Background(), s01e01)
	assert.ErrorIs(t, err, ErrTransport)
	assert.ErrorContains(t, err, "larger than 9 bytes")
}

func TestHTTPLoaderUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	_, err := NewHTTPLoader(srv.URL, "ass").Load(context.Background(), s01e01)
	assert.ErrorIs(t, err, ErrTransport)
}

func TestDecode(t *testing.T) {
	const text = "你好 Hello"

	gbk, err := simplifiedchinese.GBK.NewEncoder().String(text)
	require.NoError(t, err)
	big5, err := traditionalchinese.Big5.NewEncoder().String("再見")
	require.NoError(t, err)
	utf16, err := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder().String(text)
	require.NoError(t, err)

	tests := []struct {
		name    string
		data    []byte
		charset string
		want    string
	}{
		{"utf-8 default", []byte(text), "", text},
		{"utf-8 bom stripped", append([]byte{0xEF, 0xBB, 0xBF}, text...), "", text},
		{"gbk", []byte(gbk), "gbk", text},
		{"gb18030", []byte(gbk), "GB18030", text},
		{"big5", []byte(big5), "big5", "再見"},
		{"utf-16 bom wins over charset", []byte(utf16), "gbk", text},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode(tt.data, tt.charset)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err = Decode([]byte(text), "klingon")
	assert.Error(t, err)
}

type countingLoader struct {
	data  map[catalog.Selection][]byte
	calls int
}

func (l *countingLoader) Load(_ context.Context, sel catalog.Selection) ([]byte, error) {
	l.calls++
	data, ok := l.data[sel]
	if !ok {
		return nil, ErrNotFound
	}
	return data, nil
}

func TestServiceOpen(t *testing.T) {
	loader := &countingLoader{data: map[catalog.Selection][]byte{
		s01e01: []byte(episodeScript),
		{Season: 1, Episode: 2}: []byte("[Script Info]\nTitle: broken\n"),
	}}
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	svc := NewService(loader, dialogue.TagExtractor{
		ChineseFont: dialogue.DefaultChineseFont,
		EnglishFont: dialogue.DefaultEnglishFont,
	}, "", m)

	ep, err := svc.Open(context.Background(), s01e01)
	require.NoError(t, err)
	assert.Equal(t, "S01E01", ep.Key)
	assert.Equal(t, "S01E01", ep.Title)
	require.Len(t, ep.Items, 2)
	assert.Equal(t, "Goodbye, then", ep.Items[1].English)
	assert.Equal(t, 10*time.Second, ep.Duration)
	assert.Equal(t, 2, ep.Timeline().Len())

	_, err = svc.Open(context.Background(), s01e01)
	require.NoError(t, err)
	assert.Equal(t, 2, loader.calls, "every open reloads")

	_, err = svc.Open(context.Background(), catalog.Selection{Season: 1, Episode: 3})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.Open(context.Background(), catalog.Selection{Season: 1, Episode: 2})
	assert.ErrorIs(t, err, ErrDecode)

	_, err = svc.Open(context.Background(), catalog.Selection{Season: 11, Episode: 1})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, 4, loader.calls, "invalid selections never reach the loader")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.SubtitleLoads.WithLabelValues(metrics.ResultOK)))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.SubtitleLoads.WithLabelValues(metrics.ResultNotFound)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SubtitleLoads.WithLabelValues(metrics.ResultError)))
}
