package middleware

import (
	"io"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"

	"github.com/transops/transops/internal/logging"
)

func setupTestApp(t *testing.T) (*fiber.App, *atomic.Int64) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { cache.Close() })

	var handled atomic.Int64
	app := fiber.New()
	app.Use(Idempotency(cache, time.Minute, logging.Discard()))
	app.Post("/expenses", func(c *fiber.Ctx) error {
		handled.Add(1)
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"ok": true})
	})

	return app, &handled
}

func postExpense(t *testing.T, app *fiber.App, key string) (int, string) {
	t.Helper()
	req := httptest.NewRequest(fiber.MethodPost, "/expenses", strings.NewReader("{}"))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	if key != "" {
		req.Header.Set(idempotencyKeyHeader, key)
	}

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	resp.Body.Close()
	return resp.StatusCode, string(body)
}

func TestIdempotencyPassThroughWithoutHeader(t *testing.T) {
	app, handled := setupTestApp(t)

	first, _ := postExpense(t, app, "")
	second, _ := postExpense(t, app, "")

	if first != fiber.StatusCreated || second != fiber.StatusCreated {
		t.Fatalf("expected 201s, got %d and %d", first, second)
	}
	if handled.Load() != 2 {
		t.Fatalf("requests without a key must both reach the handler, got %d", handled.Load())
	}
}

func TestIdempotencyReplaysStoredResponse(t *testing.T) {
	app, handled := setupTestApp(t)

	firstCode, firstBody := postExpense(t, app, "abc123")
	if firstCode != fiber.StatusCreated {
		t.Fatalf("expected 201, got %d", firstCode)
	}

	secondCode, secondBody := postExpense(t, app, "abc123")
	if secondCode != fiber.StatusCreated {
		t.Fatalf("expected replayed 201, got %d", secondCode)
	}
	if secondBody != firstBody {
		t.Fatalf("expected identical payloads, got %q and %q", firstBody, secondBody)
	}
	if handled.Load() != 1 {
		t.Fatalf("handler must run once per key, ran %d times", handled.Load())
	}
}

func TestIdempotencyDistinctKeysRunSeparately(t *testing.T) {
	app, handled := setupTestApp(t)

	postExpense(t, app, "key-1")
	postExpense(t, app, "key-2")

	if handled.Load() != 2 {
		t.Fatalf("distinct keys must each run, got %d", handled.Load())
	}
}

func TestIdempotencySkipsReads(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)
	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { cache.Close() })

	var handled atomic.Int64
	app := fiber.New()
	app.Use(Idempotency(cache, time.Minute, logging.Discard()))
	app.Get("/expenses", func(c *fiber.Ctx) error {
		handled.Add(1)
		return c.SendStatus(fiber.StatusOK)
	})

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(fiber.MethodGet, "/expenses", nil)
		req.Header.Set(idempotencyKeyHeader, "same-key")
		if _, err := app.Test(req); err != nil {
			t.Fatalf("app.Test: %v", err)
		}
	}
	if handled.Load() != 2 {
		t.Fatalf("GETs must never be deduplicated, got %d", handled.Load())
	}
}
