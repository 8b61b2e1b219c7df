package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"time"

	"github.com/frahmantamala/inventory-management/internal"
	"github.com/frahmantamala/inventory-management/internal/db/dbtest"
	"github.com/frahmantamala/inventory-management/internal/inventory"
	"github.com/frahmantamala/inventory-management/internal/user"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"
)

// client replays the session cookie the server hands out, like a browser.
type client struct {
	handler http.Handler
	cookies map[string]*http.Cookie
}

func (c *client) do(method, path string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	for _, ck := range c.cookies {
		req.AddCookie(ck)
	}

	w := httptest.NewRecorder()
	c.handler.ServeHTTP(w, req)

	for _, ck := range w.Result().Cookies() {
		if ck.MaxAge < 0 {
			delete(c.cookies, ck.Name)
			continue
		}
		c.cookies[ck.Name] = ck
	}
	return w
}

func (c *client) json(method, path, body string) *httptest.ResponseRecorder {
	return c.do(method, path, strings.NewReader(body), "application/json")
}

func (c *client) login(username, password string) int {
	return c.json(http.MethodPost, "/login", `{"username":"`+username+`","password":"`+password+`"}`).Code
}

var _ = Describe("Inventory Management server", func() {
	var (
		deps    *Dependencies
		handler http.Handler
	)

	newClient := func() *client {
		return &client{handler: handler, cookies: map[string]*http.Cookie{}}
	}

	BeforeEach(func() {
		stores, err := dbtest.Open(GinkgoT().TempDir())
		Expect(err).NotTo(HaveOccurred())

		cfg := &internal.Config{
			Server: internal.ServerConfig{Port: 8080, MaxUploadBytes: 1 << 20},
			Security: internal.SecurityConfig{
				BCryptCost:        bcrypt.MinCost,
				SessionSecret:     "a-test-secret-that-is-long-enough!!",
				SessionTTL:        time.Hour,
				SessionCookieName: "inventory_session",
			},
		}
		deps = newDependencies(cfg, stores, slog.New(slog.NewTextHandler(io.Discard, nil)))
		DeferCleanup(deps.Close)

		created, err := seedDirector(context.Background(), deps.Users, "dana", "director-pw")
		Expect(err).NotTo(HaveOccurred())
		Expect(created).To(BeTrue())

		router := chi.NewRouter()
		setupRoutes(router, deps)
		handler = router
	})

	It("should not seed the same director twice", func() {
		created, err := seedDirector(context.Background(), deps.Users, "dana", "other")
		Expect(err).NotTo(HaveOccurred())
		Expect(created).To(BeFalse())
	})

	It("should authenticate, refuse wrong passwords and suspended accounts", func() {
		director := newClient()
		Expect(director.login("dana", "director-pw")).To(Equal(http.StatusOK))

		w := director.json(http.MethodPost, "/api/users", `{"username":"alice","password":"pw123","role":"admin"}`)
		Expect(w.Code).To(Equal(http.StatusCreated))
		var alice user.UserResponse
		Expect(json.NewDecoder(w.Body).Decode(&alice)).To(Succeed())

		c := newClient()
		Expect(c.login("alice", "pw123")).To(Equal(http.StatusOK))
		w = c.do(http.MethodGet, "/api/session", nil, "")
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).To(ContainSubstring(`"role":"admin"`))

		Expect(newClient().login("alice", "wrongpw")).To(Equal(http.StatusUnauthorized))

		w = director.json(http.MethodPut, "/api/users/"+strconv.FormatInt(alice.ID, 10)+"/status", `{"status":"suspended"}`)
		Expect(w.Code).To(Equal(http.StatusOK))

		Expect(newClient().login("alice", "pw123")).To(Equal(http.StatusForbidden))
		Expect(newClient().login("alice", "wrongpw")).To(Equal(http.StatusForbidden))
	})

	It("should check the session before the role", func() {
		w := newClient().do(http.MethodGet, "/api/users", nil, "")
		Expect(w.Code).To(Equal(http.StatusUnauthorized))

		director := newClient()
		Expect(director.login("dana", "director-pw")).To(Equal(http.StatusOK))
		Expect(director.json(http.MethodPost, "/api/users", `{"username":"vic","password":"pw","role":"viewer"}`).Code).To(Equal(http.StatusCreated))

		viewer := newClient()
		Expect(viewer.login("vic", "pw")).To(Equal(http.StatusOK))
		Expect(viewer.do(http.MethodGet, "/api/users", nil, "").Code).To(Equal(http.StatusForbidden))
		Expect(viewer.do(http.MethodGet, "/api/logs", nil, "").Code).To(Equal(http.StatusForbidden))
		Expect(viewer.json(http.MethodPost, "/api/inventory", `{"sqm":"1"}`).Code).To(Equal(http.StatusForbidden))
		Expect(viewer.do(http.MethodGet, "/api/inventory", nil, "").Code).To(Equal(http.StatusOK))
	})

	It("should keep a director from locking themselves out", func() {
		director := newClient()
		Expect(director.login("dana", "director-pw")).To(Equal(http.StatusOK))

		var sess struct {
			UserID int64 `json:"user_id"`
		}
		Expect(json.NewDecoder(director.do(http.MethodGet, "/api/session", nil, "").Body).Decode(&sess)).To(Succeed())
		self := "/api/users/" + strconv.FormatInt(sess.UserID, 10)

		Expect(director.do(http.MethodDelete, self, nil, "").Code).To(Equal(http.StatusForbidden))
		Expect(director.json(http.MethodPut, self+"/status", `{"status":"suspended"}`).Code).To(Equal(http.StatusForbidden))
		Expect(director.json(http.MethodPut, self, `{"role":"viewer"}`).Code).To(Equal(http.StatusForbidden))

		Expect(newClient().login("dana", "director-pw")).To(Equal(http.StatusOK))
	})

	It("should filter inventory by substring and number the results", func() {
		director := newClient()
		Expect(director.login("dana", "director-pw")).To(Equal(http.StatusOK))

		w := director.json(http.MethodPost, "/api/inventory", `{"item":"Tile","color":"White","grade":"A","batch_no":"B1","sqm":"12.5"}`)
		Expect(w.Code).To(Equal(http.StatusCreated))
		Expect(director.json(http.MethodPost, "/api/inventory", `{"item":"Slab","color":"Grey","grade":"B","batch_no":"B2","sqm":"3"}`).Code).To(Equal(http.StatusCreated))

		w = director.do(http.MethodGet, "/api/inventory?color=whi", nil, "")
		Expect(w.Code).To(Equal(http.StatusOK))
		var items []inventory.ListedItemResponse
		Expect(json.NewDecoder(w.Body).Decode(&items)).To(Succeed())
		Expect(items).To(HaveLen(1))
		Expect(items[0].SrNo).To(Equal(1))
		Expect(items[0].Item).To(Equal("Tile"))
		Expect(items[0].Grade).To(Equal("A"))
		Expect(items[0].BatchNo).To(Equal("B1"))
		Expect(items[0].SQM).To(Equal(12.5))
	})

	It("should keep the inventory when a reset file is bad and audit every change", func() {
		director := newClient()
		Expect(director.login("dana", "director-pw")).To(Equal(http.StatusOK))
		Expect(director.json(http.MethodPost, "/api/inventory", `{"item":"Keep","sqm":"1"}`).Code).To(Equal(http.StatusCreated))

		upload := func(content string) *httptest.ResponseRecorder {
			var buf bytes.Buffer
			mw := multipart.NewWriter(&buf)
			part, err := mw.CreateFormFile("file", "stock.csv")
			Expect(err).NotTo(HaveOccurred())
			_, _ = part.Write([]byte(content))
			Expect(mw.Close()).To(Succeed())
			return director.do(http.MethodPost, "/api/inventory/reset", &buf, mw.FormDataContentType())
		}

		w := upload("item,color,grade,batch_no,sqm\nA,a,a,a,1\nB,b,b,b,nope\n")
		Expect(w.Code).To(Equal(http.StatusInternalServerError))

		w = director.do(http.MethodGet, "/api/inventory", nil, "")
		Expect(w.Body.String()).To(ContainSubstring(`"item":"Keep"`))

		w = upload("item,color,grade,batch_no,sqm\nA,a,a,a,1\nB,b,b,b,2\n")
		Expect(w.Code).To(Equal(http.StatusOK))

		w = director.do(http.MethodGet, "/api/logs", nil, "")
		Expect(w.Code).To(Equal(http.StatusOK))
		var logs []map[string]interface{}
		Expect(json.NewDecoder(w.Body).Decode(&logs)).To(Succeed())

		actions := make([]string, 0, len(logs))
		for _, l := range logs {
			actions = append(actions, l["action"].(string))
		}
		Expect(actions).To(Equal([]string{"INVENTORY_RESET", "INVENTORY_ADD", "USER_LOGIN", "USER_CREATED"}))
		Expect(logs[0]["username"]).To(Equal("dana"))
	})

	It("should clear the session on logout", func() {
		c := newClient()
		Expect(c.login("dana", "director-pw")).To(Equal(http.StatusOK))
		Expect(c.do(http.MethodPost, "/logout", nil, "").Code).To(Equal(http.StatusOK))
		Expect(c.do(http.MethodGet, "/api/session", nil, "").Code).To(Equal(http.StatusUnauthorized))

		Expect(newClient().do(http.MethodPost, "/logout", nil, "").Code).To(Equal(http.StatusOK))
	})

	It("should report store health", func() {
		w := newClient().do(http.MethodGet, "/health", nil, "")
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).To(ContainSubstring(`"inventory"`))
	})
})
