package api_test

import (
	"context"
	"io"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sincloak/ragchat"
)

var _ = Describe("Stream controller", func() {
	var body *scriptedBody

	open := func() ragchat.Stream {
		s, err := scriptedClient(body).Stream(context.Background(), ragchat.ChatRequest{Message: "Hi"})
		Expect(err).ToNot(HaveOccurred())
		return s
	}

	// drain returns the text of every content event and the final error.
	drain := func(s ragchat.Stream) (string, error) {
		var sb strings.Builder
		for {
			evt, err := s.Next()
			if err != nil {
				return sb.String(), err
			}
			if c, ok := evt.(ragchat.EventContent); ok {
				sb.WriteString(c.Text)
			}
		}
	}

	Describe("chunk boundaries", func() {
		const payload = "data: {\"event_type\":\"content\",\"content\":\"Grüße 🚀\"}\n\n" +
			"data: {\"event_type\":\"content\",\"content\":\" und mehr\"}\n\n" +
			"data: {\"event_type\":\"done\"}\n\n"

		It("yields the same content however the body is split", func() {
			for size := 1; size <= len(payload); size += 7 {
				var parts []string
				for i := 0; i < len(payload); i += size {
					parts = append(parts, payload[i:min(i+size, len(payload))])
				}
				body = &scriptedBody{parts: parts}
				s := open()

				text, err := drain(s)
				Expect(err).To(MatchError(io.EOF), "chunk size %d", size)
				Expect(text).To(Equal("Grüße 🚀 und mehr"), "chunk size %d", size)
				Expect(s.State()).To(Equal(ragchat.StreamStateComplete))
				Expect(body.closes).To(Equal(1))
			}
		})
	})

	Describe("termination", func() {
		Context("when an error event arrives mid-stream", func() {
			BeforeEach(func() {
				body = &scriptedBody{parts: []string{
					record(`{"event_type":"content","content":"half"}`),
					record(`{"event_type":"error","error":null}`) + record(`{"event_type":"done"}`),
				}}
			})

			It("yields the error event and nothing after it", func() {
				s := open()
				defer s.Close()

				evt, err := s.Next()
				Expect(err).ToNot(HaveOccurred())
				Expect(evt).To(Equal(ragchat.EventContent{Text: "half"}))

				evt, err = s.Next()
				Expect(err).ToNot(HaveOccurred())
				Expect(evt).To(Equal(ragchat.EventError{}))
				Expect(s.State()).To(Equal(ragchat.StreamStateFailed))

				_, err = s.Next()
				Expect(err).To(MatchError(io.EOF))
				Expect(body.closes).To(Equal(1))
			})
		})

		Context("when the consumer stops early", func() {
			BeforeEach(func() {
				body = &scriptedBody{parts: []string{
					record(`{"event_type":"content","content":"a"}`),
					record(`{"event_type":"content","content":"b"}`),
				}}
			})

			It("releases the body exactly once through Events", func() {
				s := open()
				for evt, err := range ragchat.Events(s) {
					Expect(err).ToNot(HaveOccurred())
					Expect(evt).To(Equal(ragchat.EventContent{Text: "a"}))
					break
				}
				Expect(s.State()).To(Equal(ragchat.StreamStateClosed))
				Expect(body.closes).To(Equal(1))
				Expect(s.Close()).To(Succeed())
				Expect(body.closes).To(Equal(1))
			})
		})
	})
})
