package fetcher_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/jonmartinstorm/reposamler/internal/config"
	"github.com/jonmartinstorm/reposamler/internal/fetcher"
)

var _ = Describe("GitHubAPI", func() {
	var (
		originalClient  *http.Client
		originalBackoff time.Duration
		originalDelay   time.Duration
		originalSleep   func(time.Duration)
		api             *fetcher.GitHubAPI
		ctx             context.Context
	)

	BeforeEach(func() {
		originalClient = fetcher.HttpClient
		originalBackoff = fetcher.RetryBackoff
		originalDelay = fetcher.PageDelay
		originalSleep = fetcher.Sleep

		fetcher.RetryBackoff = time.Millisecond
		fetcher.PageDelay = 0

		ctx = context.Background()
		api = fetcher.NewGitHubAPI(config.Config{Token: "dummy-token"})
	})

	AfterEach(func() {
		fetcher.HttpClient = originalClient
		fetcher.RetryBackoff = originalBackoff
		fetcher.PageDelay = originalDelay
		fetcher.Sleep = originalSleep
	})

	Describe("FetchPage", func() {
		It("skal returnere tomt resultat på HTTP 422 uten å retrye", func() {
			callCount := 0
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				callCount++
				w.WriteHeader(http.StatusUnprocessableEntity)
				_, _ = fmt.Fprint(w, `{"message":"Only the first 1000 search results are available"}`)
			}))
			defer ts.Close()
			fetcher.HttpClient = ts.Client()

			items, err := api.FetchPage(ctx, ts.URL, "2025-01-01", 11)
			Expect(err).To(BeNil())
			Expect(items).To(BeEmpty())
			Expect(callCount).To(Equal(1))
		})

		It("skal returnere tomt resultat når 'items' mangler i payloaden", func() {
			callCount := 0
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				callCount++
				w.WriteHeader(http.StatusOK)
				_, _ = fmt.Fprint(w, `{"total_count": 99}`)
			}))
			defer ts.Close()
			fetcher.HttpClient = ts.Client()

			items, err := api.FetchPage(ctx, ts.URL, "2025-01-01", 1)
			Expect(err).To(BeNil())
			Expect(items).To(BeEmpty())
			Expect(callCount).To(Equal(1))
		})

		It("skal returnere tomt resultat på payload som ikke er JSON", func() {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
				_, _ = fmt.Fprint(w, `ikke json i det hele tatt`)
			}))
			defer ts.Close()
			fetcher.HttpClient = ts.Client()

			items, err := api.FetchPage(ctx, ts.URL, "2025-01-01", 1)
			Expect(err).To(BeNil())
			Expect(items).To(BeEmpty())
		})

		It("skal retrye serverfeil og til slutt lykkes", func() {
			callCount := 0
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				callCount++
				if callCount <= 2 {
					w.WriteHeader(http.StatusInternalServerError)
					return
				}
				w.WriteHeader(http.StatusOK)
				_, _ = fmt.Fprint(w, `{"total_count": 1, "items": [{"id": 7, "name": "demo"}]}`)
			}))
			defer ts.Close()
			fetcher.HttpClient = ts.Client()

			items, err := api.FetchPage(ctx, ts.URL, "2025-01-01", 1)
			Expect(err).To(BeNil())
			Expect(items).To(HaveLen(1))
			Expect(*items[0].ID).To(Equal(int64(7)))
			Expect(callCount).To(Equal(3))
		})

		It("skal gi feil når alle forsøkene er brukt opp", func() {
			callCount := 0
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				callCount++
				w.WriteHeader(http.StatusBadGateway)
				_, _ = fmt.Fprint(w, `{"message":"bad gateway"}`)
			}))
			defer ts.Close()
			fetcher.HttpClient = ts.Client()

			items, err := api.FetchPage(ctx, ts.URL, "2025-01-01", 1)
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("status 502"))
			Expect(items).To(BeNil())
			Expect(callCount).To(Equal(fetcher.MaxRetries))
		})

		It("skal sette Authorization-header når token er konfigurert", func() {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				Expect(r.Header.Get("Authorization")).To(Equal("token dummy-token"))
				Expect(r.Header.Get("Accept")).To(Equal("application/vnd.github.v3+json"))
				w.WriteHeader(http.StatusOK)
				_, _ = fmt.Fprint(w, `{"total_count": 0, "items": []}`)
			}))
			defer ts.Close()
			fetcher.HttpClient = ts.Client()

			_, err := api.FetchPage(ctx, ts.URL, "2025-01-01", 1)
			Expect(err).To(BeNil())
		})
	})

	Describe("FetchDay", func() {
		It("skal hente alle sidene i rekkefølge og sove mellom dem", func() {
			sleeps := 0
			fetcher.Sleep = func(time.Duration) { sleeps++ }

			pages := map[string]string{
				"1": `{"total_count": 20, "items": [` + repoItems(1, 10) + `]}`,
				"2": `{"total_count": 20, "items": [` + repoItems(11, 10) + `]}`,
				"3": `{"total_count": 20, "items": []}`,
			}

			var requestedQueries []string
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				requestedQueries = append(requestedQueries, r.URL.RawQuery)
				w.WriteHeader(http.StatusOK)
				_, _ = fmt.Fprint(w, pages[r.URL.Query().Get("page")])
			}))
			defer ts.Close()
			fetcher.HttpClient = &http.Client{
				Transport: rewriteTransport{base: ts.Client().Transport, target: ts.URL},
			}

			items, err := api.FetchDay(ctx, "2025-01-01")
			Expect(err).To(BeNil())
			Expect(items).To(HaveLen(20))
			Expect(*items[0].ID).To(Equal(int64(1)))
			Expect(*items[19].ID).To(Equal(int64(20)))
			Expect(sleeps).To(Equal(2))

			Expect(requestedQueries).To(HaveLen(3))
			Expect(requestedQueries[0]).To(ContainSubstring("created:2025-01-01"))
			Expect(requestedQueries[0]).To(ContainSubstring("page=1"))
			Expect(requestedQueries[2]).To(ContainSubstring("page=3"))
		})

		It("skal propagere feil fra sidehenting", func() {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			}))
			defer ts.Close()
			fetcher.HttpClient = &http.Client{
				Transport: rewriteTransport{base: ts.Client().Transport, target: ts.URL},
			}

			items, err := api.FetchDay(ctx, "2025-01-01")
			Expect(err).To(HaveOccurred())
			Expect(items).To(BeNil())
		})
	})
})

// rewriteTransport sender alle kall til testserveren uansett host, slik at
// FetchDay kan bygge ekte GitHub-URL-er.
type rewriteTransport struct {
	base   http.RoundTripper
	target string
}

func (t rewriteTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	rewritten := t.target + "?" + req.URL.RawQuery
	newReq, err := http.NewRequestWithContext(req.Context(), req.Method, rewritten, nil)
	if err != nil {
		return nil, err
	}
	newReq.Header = req.Header
	return t.base.RoundTrip(newReq)
}

func repoItems(startID, count int) string {
	out := ""
	for i := 0; i < count; i++ {
		if i > 0 {
			out += ","
		}
		out += fmt.Sprintf(`{"id": %d, "name": "repo%d"}`, startID+i, startID+i)
	}
	return out
}
