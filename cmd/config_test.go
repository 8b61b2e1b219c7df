package cmd

import (
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("loadConfig", func() {
	It("should fill defaults and let the environment override the file", func() {
		dir := GinkgoT().TempDir()
		Expect(os.WriteFile(filepath.Join(dir, "config.yml"), []byte(`
http_server:
  port: 9090
security:
  session_secret: "file-secret-file-secret-file-secret"
`), 0o600)).To(Succeed())
		GinkgoT().Setenv("INVENTORY_SECURITY_SESSION_SECRET", "env-secret-env-secret-env-secret-env")
		GinkgoT().Setenv("INVENTORY_STORES_LOGS_DRIVER", "postgres")
		GinkgoT().Setenv("INVENTORY_STORES_LOGS_SOURCE", "postgres://localhost/logs")

		cfg, err := loadConfig(dir)
		Expect(err).NotTo(HaveOccurred())

		Expect(cfg.Server.Port).To(Equal(9090))
		Expect(cfg.Security.SessionSecret).To(Equal("env-secret-env-secret-env-secret-env"))
		Expect(cfg.Security.SessionTTL).To(Equal(31 * 24 * time.Hour))
		Expect(cfg.Security.SessionCookieName).To(Equal("inventory_session"))
		Expect(cfg.Stores.Users.Driver).To(Equal("sqlite"))
		Expect(cfg.Stores.Logs.Driver).To(Equal("postgres"))
		Expect(cfg.Stores.Logs.Source).To(Equal("postgres://localhost/logs"))
	})

	It("should refuse to start without a session secret", func() {
		_, err := loadConfig(GinkgoT().TempDir())
		Expect(err).To(MatchError(ContainSubstring("session secret")))
	})
})
