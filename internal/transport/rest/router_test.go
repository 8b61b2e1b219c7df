package rest_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"

	"github.com/frahmantamala/inventory-management/internal"
	"github.com/frahmantamala/inventory-management/internal/audit"
	"github.com/frahmantamala/inventory-management/internal/session"
	"github.com/frahmantamala/inventory-management/internal/transport"
	"github.com/frahmantamala/inventory-management/internal/transport/middleware"
	"github.com/frahmantamala/inventory-management/internal/transport/rest"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type stubLoader struct {
	sess *internal.Session
}

func (s *stubLoader) Load(*http.Request) (internal.Session, error) {
	if s.sess == nil {
		return internal.Session{}, session.ErrNoSession
	}
	return *s.sess, nil
}

type stubPinger struct{ err error }

func (p stubPinger) PingContext(context.Context) error { return p.err }

type stubLogs struct{ calls int }

func (s *stubLogs) List(context.Context) ([]audit.LogResponse, error) {
	s.calls++
	return []audit.LogResponse{}, nil
}

var _ = Describe("Router", func() {
	var (
		router *chi.Mux
		loader *stubLoader
		logs   *stubLogs
		pinger *stubPinger
	)

	serve := func(method, path string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(method, path, nil))
		return w
	}

	BeforeEach(func() {
		loader = &stubLoader{}
		logs = &stubLogs{}
		pinger = &stubPinger{}

		router = chi.NewRouter()
		rest.RegisterAllRoutes(router, rest.RouterConfig{Sessions: loader}, rest.Handlers{
			Logs:   audit.NewHandler(transport.NewBaseHandler(nil), logs),
			Health: rest.NewHealthHandler(map[string]rest.Pinger{"users": pinger}),
		})
	})

	Describe("guards", func() {
		It("should answer 401 before looking at the role", func() {
			w := serve(http.MethodGet, "/api/logs")
			Expect(w.Code).To(Equal(http.StatusUnauthorized))
			Expect(logs.calls).To(BeZero())
		})

		It("should answer 403 for a non-director", func() {
			loader.sess = &internal.Session{UserID: 2, Username: "ann", Role: internal.RoleAdmin}

			w := serve(http.MethodGet, "/api/logs")
			Expect(w.Code).To(Equal(http.StatusForbidden))
			Expect(logs.calls).To(BeZero())
		})

		It("should reach the handler for a director", func() {
			loader.sess = &internal.Session{UserID: 1, Username: "boss", Role: internal.RoleDirector}

			w := serve(http.MethodGet, "/api/logs")
			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(logs.calls).To(Equal(1))
		})
	})

	Describe("health", func() {
		It("should report healthy stores", func() {
			w := serve(http.MethodGet, "/health")
			Expect(w.Code).To(Equal(http.StatusOK))

			var resp rest.HealthResponse
			Expect(json.NewDecoder(w.Body).Decode(&resp)).To(Succeed())
			Expect(resp.Status).To(Equal(rest.HealthHealthy))
			Expect(resp.Components).To(HaveKey("users"))
		})

		It("should answer 503 when a store is unreachable", func() {
			pinger.err = errors.New("connection refused")

			w := serve(http.MethodGet, "/health")
			Expect(w.Code).To(Equal(http.StatusServiceUnavailable))
			Expect(w.Body.String()).NotTo(ContainSubstring("connection refused"))
		})

		It("should answer ping without a session", func() {
			Expect(serve(http.MethodGet, "/ping").Code).To(Equal(http.StatusOK))
		})
	})

	It("should stamp every response with a trace id", func() {
		w := serve(http.MethodGet, "/ping")
		Expect(w.Header().Get(middleware.TraceHeader)).NotTo(BeEmpty())
	})

	It("should serve the OpenAPI document", func() {
		w := serve(http.MethodGet, "/openapi.yml")
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).To(ContainSubstring("openapi: 3.0.3"))
	})

	It("should answer unknown paths with the JSON error envelope", func() {
		w := serve(http.MethodGet, "/nowhere")
		Expect(w.Code).To(Equal(http.StatusNotFound))

		var body map[string]map[string]interface{}
		Expect(json.NewDecoder(w.Body).Decode(&body)).To(Succeed())
		Expect(body["error"]["type"]).To(Equal(string(internal.ErrorTypeNotFound)))
	})
})
