package config_test

import (
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"go.miloapis.com/email-provider-pure360/internal/config"
)

var _ = Describe("Load", func() {
	var keys = []string{
		"PURE360_BASE_URL", "PURE360_PROFILE", "PURE360_TOKEN", "PURE360_RESPONSE_TYPE",
		"PURE360_RESPONSE_URI", "PURE360_ACCOUNT", "PURE360_USERNAME", "PURE360_PASSWORD",
		"PURE360_WEBHOOK_ADDR", "PURE360_WEBHOOK_SECRET", "PURE360_HTTP_TIMEOUT",
		"LOG_DEVELOPMENT", "LOG_VERBOSITY",
	}

	BeforeEach(func() {
		for _, k := range keys {
			if v, ok := os.LookupEnv(k); ok {
				DeferCleanup(os.Setenv, k, v)
			} else {
				DeferCleanup(os.Unsetenv, k)
			}
			Expect(os.Unsetenv(k)).To(Succeed())
		}
	})

	It("applies defaults when nothing is set", func() {
		cfg, err := config.Load("")
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.ResponseType).To(Equal("EMAIL"))
		Expect(cfg.WebhookAddr).To(Equal(":8080"))
		Expect(cfg.HTTPTimeout).To(Equal(30 * time.Second))
		Expect(cfg.LogDevelopment).To(BeFalse())
	})

	It("reads the environment", func() {
		Expect(os.Setenv("PURE360_PROFILE", "acme")).To(Succeed())
		Expect(os.Setenv("PURE360_HTTP_TIMEOUT", "5s")).To(Succeed())
		Expect(os.Setenv("LOG_DEVELOPMENT", "true")).To(Succeed())
		Expect(os.Setenv("LOG_VERBOSITY", "2")).To(Succeed())

		cfg, err := config.Load("")
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.Profile).To(Equal("acme"))
		Expect(cfg.HTTPTimeout).To(Equal(5 * time.Second))
		Expect(cfg.LogDevelopment).To(BeTrue())
		Expect(cfg.LogVerbosity).To(Equal(2))
	})

	It("loads a .env file without overriding the environment", func() {
		envFile := filepath.Join(GinkgoT().TempDir(), ".env")
		Expect(os.WriteFile(envFile, []byte("PURE360_TOKEN=from-file\nPURE360_ACCOUNT=file-account\n"), 0o600)).To(Succeed())
		Expect(os.Setenv("PURE360_ACCOUNT", "env-account")).To(Succeed())

		cfg, err := config.Load(envFile)
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.Token).To(Equal("from-file"))
		Expect(cfg.Account).To(Equal("env-account"))
	})

	It("ignores a missing .env file", func() {
		_, err := config.Load(filepath.Join(GinkgoT().TempDir(), "missing.env"))
		Expect(err).NotTo(HaveOccurred())
	})

	It("rejects an invalid timeout", func() {
		Expect(os.Setenv("PURE360_HTTP_TIMEOUT", "soon")).To(Succeed())
		_, err := config.Load("")
		Expect(err).To(MatchError(ContainSubstring("PURE360_HTTP_TIMEOUT")))
	})

	It("rejects a non-positive timeout", func() {
		Expect(os.Setenv("PURE360_HTTP_TIMEOUT", "0s")).To(Succeed())
		_, err := config.Load("")
		Expect(err).To(HaveOccurred())
	})
})
