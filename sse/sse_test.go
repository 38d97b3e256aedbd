package sse_test

import (
	"slices"
	"strings"
	"testing"

	"github.com/sincloak/ragchat/sse"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = "data: {\"event_type\":\"content\",\"content\":\"Grüße, 世界 🚀\"}\n\n" +
	"data: {\"event_type\":\"token_usage\",\"token_usage\":{\"total_tokens\":42}}\n\n" +
	"data: {\"event_type\":\"done\"}\n\n"

func feedAll(chunks ...[]byte) ([]string, string) {
	b := sse.NewBuffer()
	var records []string
	for _, c := range chunks {
		records = append(records, b.Feed(c)...)
	}
	return records, b.Pending()
}

func TestBuffer_Feed(t *testing.T) {
	t.Parallel()

	t.Run("splits records on blank lines", func(t *testing.T) {
		t.Parallel()
		records, pending := feedAll([]byte(sample))
		require.Len(t, records, 3)
		assert.Equal(t, `data: {"event_type":"content","content":"Grüße, 世界 🚀"}`, records[0])
		assert.Equal(t, `data: {"event_type":"done"}`, records[2])
		assert.Empty(t, pending)
	})

	t.Run("keeps partial record pending", func(t *testing.T) {
		t.Parallel()
		b := sse.NewBuffer()
		assert.Empty(t, b.Feed([]byte("data: {\"event_type\":")))
		assert.Equal(t, "data: {\"event_type\":", b.Pending())

		records := b.Feed([]byte("\"done\"}\n\ndata: x"))
		assert.Equal(t, []string{`data: {"event_type":"done"}`}, records)
		assert.Equal(t, "data: x", b.Pending())
	})

	t.Run("delimiter split across chunks", func(t *testing.T) {
		t.Parallel()
		records, pending := feedAll([]byte("data: a\n"), []byte("\ndata: b\n"), []byte("\n"))
		assert.Equal(t, []string{"data: a", "data: b"}, records)
		assert.Empty(t, pending)
	})

	t.Run("truncated tail is never emitted", func(t *testing.T) {
		t.Parallel()
		records, pending := feedAll([]byte("data: a\n\ndata: {\"event_type\":\"done\"}"))
		assert.Equal(t, []string{"data: a"}, records)
		assert.Equal(t, `data: {"event_type":"done"}`, pending)
	})

	t.Run("multi-byte character split across chunks", func(t *testing.T) {
		t.Parallel()
		rocket := []byte("🚀")
		require.Len(t, rocket, 4)

		b := sse.NewBuffer()
		assert.Empty(t, b.Feed(append([]byte("data: "), rocket[:1]...)))
		assert.Equal(t, "data: ", b.Pending())
		assert.Empty(t, b.Feed(rocket[1:3]))
		records := b.Feed(append(rocket[3:], "\n\n"...))
		assert.Equal(t, []string{"data: 🚀"}, records)
	})

	t.Run("invalid bytes become replacement characters", func(t *testing.T) {
		t.Parallel()
		records, _ := feedAll([]byte("data: \xff\n\n"))
		assert.Equal(t, []string{"data: �"}, records)
	})

	t.Run("empty chunk", func(t *testing.T) {
		t.Parallel()
		b := sse.NewBuffer()
		assert.Nil(t, b.Feed(nil))
		assert.Empty(t, b.Pending())
	})
}

func TestBuffer_ChunkBoundaryIndependence(t *testing.T) {
	t.Parallel()
	data := []byte(sample + "data: trailing")
	want, wantPending := feedAll(data)

	// Every two-way and every three-way split of the stream.
	for i := 0; i <= len(data); i++ {
		got, pending := feedAll(data[:i], data[i:])
		require.Equal(t, want, got, "split at %d", i)
		require.Equal(t, wantPending, pending, "split at %d", i)
	}
	for i := 0; i <= len(data); i += 3 {
		for j := i; j <= len(data); j += 5 {
			got, _ := feedAll(data[:i], data[i:j], data[j:])
			require.Equal(t, want, got, "split at %d,%d", i, j)
		}
	}

	// One byte at a time.
	chunks := make([][]byte, len(data))
	for i := range data {
		chunks[i] = data[i : i+1]
	}
	got, pending := feedAll(chunks...)
	assert.Equal(t, want, got)
	assert.Equal(t, wantPending, pending)
}

func TestBuffer_Reset(t *testing.T) {
	t.Parallel()
	b := sse.NewBuffer()
	b.Feed([]byte("data: partial\xe2\x82"))
	b.Reset()
	assert.Empty(t, b.Pending())
	assert.Equal(t, []string{"data: ok"}, b.Feed([]byte("data: ok\n\n")))
}

func TestBuffer_LongRecordInSmallReads(t *testing.T) {
	t.Parallel()

	body := "data: {\"event_type\":\"content\",\"content\":\"" + strings.Repeat("é", 64<<10) + "\"}"
	data := []byte("data: first\n\n" + body + "\n\n" + "data: tail")

	b := sse.NewBuffer()
	var records []string
	for chunk := range slices.Chunk(data, 7) {
		records = append(records, b.Feed(chunk)...)
	}

	assert.Equal(t, []string{"data: first", body}, records)
	assert.Equal(t, "data: tail", b.Pending())
}

func TestBuffer_DelimiterAcrossReads(t *testing.T) {
	t.Parallel()

	b := sse.NewBuffer()
	assert.Empty(t, b.Feed([]byte("data: a\n")))
	assert.Equal(t, []string{"data: a", "\ndata: b"}, b.Feed([]byte("\n\ndata: b\n\n")))
	assert.Empty(t, b.Pending())
}

func BenchmarkBuffer_LongRecord(b *testing.B) {
	data := []byte("data: " + strings.Repeat("x", 1<<20) + "\n\n")
	for b.Loop() {
		buf := sse.NewBuffer()
		for chunk := range slices.Chunk(data, 64) {
			buf.Feed(chunk)
		}
	}
}
