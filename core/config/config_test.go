package config_test

import (
	"os"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"supportdesk.app/engine/core/config"
)

var _ = Describe("Load", func() {
	var saved map[string]*string

	setEnv := func(key, value string) {
		if _, ok := saved[key]; !ok {
			if prev, had := os.LookupEnv(key); had {
				saved[key] = &prev
			} else {
				saved[key] = nil
			}
		}
		Expect(os.Setenv(key, value)).To(Succeed())
	}

	BeforeEach(func() {
		saved = map[string]*string{}
		setEnv("APP_ENV", "test")
	})

	AfterEach(func() {
		for key, prev := range saved {
			if prev == nil {
				_ = os.Unsetenv(key)
			} else {
				_ = os.Setenv(key, *prev)
			}
		}
	})

	It("requires DATABASE_URL", func() {
		setEnv("DATABASE_URL", "")

		_, err := config.Load(config.ServiceTypeServer)
		Expect(err).To(MatchError(ContainSubstring("DATABASE_URL")))
	})

	It("applies defaults for SLA and sweeps", func() {
		setEnv("DATABASE_URL", "postgres://localhost/support")

		cfg, err := config.Load(config.ServiceTypeWorker)
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.SLA.DefaultResponseSeconds).To(Equal(int32(300)))
		Expect(cfg.SLA.DefaultWarningPercent).To(Equal(int32(80)))
		Expect(cfg.Sweeps.BreachInterval).To(Equal(15 * time.Second))
		Expect(cfg.Sweeps.IdleReturnEnabled()).To(BeFalse())
		Expect(cfg.NodeID).To(Equal(int64(2)))
		Expect(cfg.Events.Enabled()).To(BeFalse())
	})

	It("reads overrides from the environment", func() {
		setEnv("DATABASE_URL", "postgres://localhost/support")
		setEnv("SLA_SWEEP_INTERVAL", "5s")
		setEnv("IDLE_RETURN_MINUTES", "5")
		setEnv("ALLOW_SELF_TRANSFER", "true")
		setEnv("REDIS_URL", "redis://localhost:6379/0")

		cfg, err := config.Load(config.ServiceTypeServer)
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.Sweeps.BreachInterval).To(Equal(5 * time.Second))
		Expect(cfg.Sweeps.IdleReturnEnabled()).To(BeTrue())
		Expect(cfg.Assignment.AllowSelfTransfer).To(BeTrue())
		Expect(cfg.Events.Enabled()).To(BeTrue())
	})

	It("rejects an out of range warning percent", func() {
		setEnv("DATABASE_URL", "postgres://localhost/support")
		setEnv("SLA_DEFAULT_WARNING_PERCENT", "150")

		_, err := config.Load(config.ServiceTypeServer)
		Expect(err).To(MatchError(ContainSubstring("WARNING_PERCENT")))
	})
})
