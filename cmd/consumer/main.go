// Command consumer wires a franz-go client, the kactor actor, and the
// ambient recovery/audit/dead-letter/lag-report services into one running
// process. It is example wiring, not a library: applications embedding
// kactor assemble their own equivalent of main() around their own streams.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"kactor/pkg/auditstore"
	"kactor/pkg/commitrecovery"
	"kactor/pkg/deadletter"
	"kactor/pkg/kactor"
	"kactor/pkg/kafka"
	"kactor/pkg/lagreport"
	"kactor/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log := logger.New(logger.Config{Level: "info", Format: "json", Output: "stdout"})

	const groupID = "kactor-example-consumer"

	kafkaCfg := kafka.DefaultConfig()
	kafkaCfg.Group = groupID
	kafkaCfg.Topics = []string{"orders"}

	adapter, err := kafka.NewAdapter(ctx, kafkaCfg)
	if err != nil {
		log.Fatal(ctx, "consumer: failed to build kafka adapter", "error", err)
	}
	defer adapter.Close()

	preflight := kafka.NewPreflight(adapter.RawClient())
	if err := preflight.CheckTopics(ctx, kafkaCfg.Topics); err != nil {
		log.Fatal(ctx, "consumer: preflight failed", "error", err)
	}

	auditStore, err := auditstore.Open(ctx, auditstore.Config{
		DSN:            os.Getenv("AUDITSTORE_DSN"),
		MaxConns:       4,
		ConnectTimeout: 10 * time.Second,
		QueryTimeout:   5 * time.Second,
		MaxRetries:     3,
		RetryInterval:  time.Second,
	})
	if err != nil {
		log.Fatal(ctx, "consumer: failed to open audit store", "error", err)
	}
	defer auditStore.Close()

	deadLetterPub, err := deadletter.NewPublisher(deadletter.Config{
		URL:            os.Getenv("DEADLETTER_AMQP_URL"),
		RoutingKey:     "commit.dead-letter",
		ConnectTimeout: 5 * time.Second,
		PublishTimeout: 5 * time.Second,
	})
	if err != nil {
		log.Fatal(ctx, "consumer: failed to connect dead-letter publisher", "error", err)
	}
	defer deadLetterPub.Close()

	recovery := commitrecovery.WithDeadLetter{
		GroupID:   groupID,
		Publisher: deadLetterPub,
		Log:       log,
		Inner: commitrecovery.WithAudit{
			GroupID: groupID,
			Store:   auditStore,
			Log:     log,
			Inner:   commitrecovery.NewExponentialBackoff(),
		},
	}

	cfg := kactor.DefaultConfig()
	cfg.GroupID = groupID
	cfg.CommitRecovery = recovery

	actor := kactor.New(adapter, cfg, log)

	runDone := make(chan struct{})
	go func() {
		defer close(runDone)
		actor.Run(ctx)
	}()

	if err := actor.SubscribeTopics(ctx, kafkaCfg.Topics); err != nil {
		log.Fatal(ctx, "consumer: subscribe failed", "error", err)
	}

	lagCache, err := lagreport.NewCache(ctx, lagreport.Config{
		RedisHost:   envOr("LAGREPORT_REDIS_HOST", "localhost"),
		RedisPort:   6379,
		SnapshotTTL: 30 * time.Second,
	})
	if err != nil {
		log.Fatal(ctx, "consumer: failed to connect lag cache", "error", err)
	}
	defer lagCache.Close()

	reporter := lagreport.NewReporter(actor, adapter.RawClient(), lagCache, groupID, 15*time.Second, log)
	go reporter.Run(ctx)

	lagServer, err := lagreport.NewServer(lagCache, lagreport.Config{
		JWTSecret:   os.Getenv("LAGREPORT_JWT_SECRET"),
		SnapshotTTL: 30 * time.Second,
	})
	if err != nil {
		log.Fatal(ctx, "consumer: failed to build lag-report server", "error", err)
	}

	httpServer := &http.Server{Addr: ":8081", Handler: lagServer}
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error(ctx, "consumer: lag-report server stopped", "error", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	httpServer.Shutdown(shutdownCtx)

	<-runDone
	actor.Close()
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
