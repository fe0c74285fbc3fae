package keepalive

import (
	"context"
	"net/http"
	"net/http/httptest"

	. "github.com/onsi/ginkgo/v2/dsl/core"
	. "github.com/onsi/ginkgo/v2/dsl/table"
	. "github.com/onsi/gomega"
)

var _ = Describe("parseBaseUrl", func() {

	DescribeTable("should normalize",
		func(input string, expected string) {
			result, err := parseBaseUrl(input)
			Expect(err).NotTo(HaveOccurred())
			Expect(result.String()).To(Equal(expected))
		},
		Entry("a bare host", "example.com", "https://example.com"),
		Entry("a trailing slash", "http://localhost:8080/", "http://localhost:8080"),
		Entry("a path prefix", "https://example.com/api/", "https://example.com/api"),
		Entry("a query and fragment", "https://example.com/?a=1#top", "https://example.com"),
		Entry("surrounding spaces", "  https://example.com  ", "https://example.com"),
	)

	DescribeTable("should reject",
		func(input string) {
			_, err := parseBaseUrl(input)
			Expect(err).To(HaveOccurred())
		},
		Entry("an unsupported scheme", "ftp://example.com"),
		Entry("a missing host", "https://"),
		Entry("an empty value", ""),
	)
})

var _ = Describe("NewClient", func() {

	It("should build a direct client", func() {
		client, err := NewClient(ClientOptions{})
		Expect(err).NotTo(HaveOccurred())

		transport, ok := client.Transport.(*http.Transport)
		Expect(ok).To(BeTrue())
		Expect(transport.DialContext).To(BeNil())
	})

	It("should dial through a socks proxy", func() {
		client, err := NewClient(ClientOptions{ProxyUrl: "socks5://127.0.0.1:1080"})
		Expect(err).NotTo(HaveOccurred())

		transport := client.Transport.(*http.Transport)
		Expect(transport.DialContext).NotTo(BeNil())
		Expect(transport.Proxy).To(BeNil())
	})

	It("should reject http proxies", func() {
		_, err := NewClient(ClientOptions{ProxyUrl: "http://127.0.0.1:3128"})
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("newRequest", func() {

	It("should join paths and set headers", func() {
		var received *http.Request

		srv := httptest.NewServer(http.HandlerFunc(func(wrt http.ResponseWriter, req *http.Request) {
			received = req
			wrt.WriteHeader(http.StatusNoContent)
		}))
		defer srv.Close()

		prober, err := NewProber(ProberOptions{
			BaseUrl: srv.URL + "/api/",
			Headers: map[string]string{
				"Host":          "service.example.com",
				"Authorization": "Bearer token",
			},
		}, nil, &LogReporter{})
		Expect(err).NotTo(HaveOccurred())

		result := prober.probeHeartbeat(context.Background())
		Expect(result.Err).NotTo(HaveOccurred())
		Expect(result.Up()).To(BeTrue())

		Expect(received.URL.Path).To(Equal("/api/heartbeat"))
		Expect(received.Host).To(Equal("service.example.com"))
		Expect(received.Header.Get("Authorization")).To(Equal("Bearer token"))
		Expect(received.Header.Get("User-Agent")).To(Equal(userAgent))
	})
})
