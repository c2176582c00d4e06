package postsvc

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"go.uber.org/zap"

	"github.com/br-lazy-bird/content-delivery/internal/blog"
	"github.com/br-lazy-bird/content-delivery/internal/store"
)

// PostReader is the slice of the store the service reads from.
type PostReader interface {
	PostIDs(ctx context.Context) ([]int64, error)
	Post(ctx context.Context, id int64) (store.Post, error)
}

// Ensure the store satisfies PostReader at compile time.
var _ PostReader = (*store.Repository)(nil)

// Options configure the posts service.
type Options struct {
	Logger *zap.Logger
	// QueryDelay is paid on every single-post lookup.
	QueryDelay time.Duration
	// RowDelay is paid for each row while building the list.
	RowDelay time.Duration
}

const (
	serviceName = "posts-service"
	// requestTimeout bounds a whole request, delays included.
	requestTimeout = 30 * time.Second
)

type handler struct {
	repo       PostReader
	log        *zap.Logger
	queryDelay time.Duration
	rowDelay   time.Duration
	pause      func(ctx context.Context, d time.Duration) error
}

// New builds the posts service app.
func New(repo PostReader, opts Options) *fiber.App {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	h := &handler{
		repo:       repo,
		log:        log,
		queryDelay: opts.QueryDelay,
		rowDelay:   opts.RowDelay,
		pause:      pause,
	}
	return newApp(h)
}

func newApp(h *handler) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               serviceName,
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler(h.log),
		ReadTimeout:           10 * time.Second,
		IdleTimeout:           60 * time.Second,
	})
	app.Use(requestid.New())
	app.Use(recover.New())
	app.Use(requestContext(requestTimeout))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(blog.Health{Status: "healthy", Service: serviceName})
	})
	app.Get("/posts", h.list)
	app.Get("/posts/:id", h.get)
	return app
}

// list builds the response one row at a time: one query for the ids, then
// one query per post.
func (h *handler) list(c *fiber.Ctx) error {
	ctx := c.UserContext()
	start := time.Now()

	ids, err := h.repo.PostIDs(ctx)
	if err != nil {
		return err
	}
	posts := make([]blog.Post, 0, len(ids))
	for _, id := range ids {
		if err := h.pause(ctx, h.rowDelay); err != nil {
			return err
		}
		p, err := h.repo.Post(ctx, id)
		if err != nil {
			return err
		}
		posts = append(posts, toWire(p))
	}

	h.log.Info("listed posts",
		zap.Int("count", len(posts)),
		zap.Int("queries", len(ids)+1),
		zap.Duration("duration", time.Since(start)),
		zap.Any("request_id", c.Locals("requestid")),
	)
	return c.JSON(posts)
}

func (h *handler) get(c *fiber.Ctx) error {
	id, err := parseID(c.Params("id"))
	if err != nil {
		return err
	}
	ctx := c.UserContext()
	start := time.Now()

	if err := h.pause(ctx, h.queryDelay); err != nil {
		return err
	}
	p, err := h.repo.Post(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Post not found")
		}
		return err
	}

	h.log.Info("fetched post",
		zap.Int64("id", id),
		zap.String("title", p.Title),
		zap.Duration("duration", time.Since(start)),
		zap.Any("request_id", c.Locals("requestid")),
	)
	return c.JSON(toWire(p))
}

func toWire(p store.Post) blog.Post {
	return blog.Post{
		ID:         p.ID,
		Title:      p.Title,
		Content:    p.Content,
		Department: p.Department,
		Author:     p.Author,
		CreatedAt:  p.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fiber.NewError(fiber.StatusUnprocessableEntity, "post id must be an integer")
	}
	return id, nil
}

// requestContext gives each request a user context that expires after timeout
// and is cancelled when the server shuts down. fasthttp does not report client
// disconnects, so the deadline is what stops an abandoned request.
func requestContext(timeout time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.Context(), timeout)
		defer cancel()
		c.SetUserContext(ctx)
		return c.Next()
	}
}

func pause(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func errorHandler(log *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		detail := "Internal server error"

		var fe *fiber.Error
		if errors.As(err, &fe) {
			code = fe.Code
			detail = fe.Message
		} else {
			log.Error("request failed",
				zap.String("path", c.Path()),
				zap.Error(err),
				zap.Any("request_id", c.Locals("requestid")),
			)
		}
		return c.Status(code).JSON(fiber.Map{"detail": detail})
	}
}
