package gateway

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/br-lazy-bird/content-delivery/internal/blog"
)

const (
	serviceName = "backend"
	// requestTimeout bounds a whole proxied request. The posts service list
	// pays a delay per row, so this is well above the upstream header timeout.
	requestTimeout = 30 * time.Second
)

// Options configure the gateway.
type Options struct {
	PostsServiceURL string
	CORSOrigins     []string
	Logger          *zap.Logger
	// Timeout bounds connecting to the posts service and waiting for its
	// response headers. Zero means five seconds.
	Timeout time.Duration
}

type handler struct {
	posts *upstream
	log   *zap.Logger
}

// New builds the backend gateway app. It fails when the posts service URL
// is missing or malformed.
func New(opts Options) (*fiber.App, error) {
	posts, err := newUpstream(opts.PostsServiceURL, opts.Timeout)
	if err != nil {
		return nil, err
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	h := &handler{posts: posts, log: log}

	app := fiber.New(fiber.Config{
		AppName:               serviceName,
		DisableStartupMessage: true,
		ErrorHandler:          h.errorHandler,
		ReadTimeout:           10 * time.Second,
		IdleTimeout:           60 * time.Second,
	})
	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	app.Use(recover.New())
	app.Use(cors.New(corsConfig(opts.CORSOrigins)))
	app.Use(requestContext(requestTimeout))
	app.Use(logger.New(logger.Config{
		Format: "${status} ${method} ${path} ${latency} ${locals:requestid}\n",
		Output: zap.NewStdLog(log.Named("access")).Writer(),
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(blog.Health{Status: "healthy", Service: serviceName})
	})
	api := app.Group("/api")
	api.Get("/posts", h.listPosts)
	api.Get("/posts/:id", h.getPost)
	return app, nil
}

func corsConfig(origins []string) cors.Config {
	cleaned := make([]string, 0, len(origins))
	for _, o := range origins {
		o = strings.TrimSpace(o)
		u, err := url.Parse(o)
		if err != nil || u.Scheme == "" || u.Host == "" {
			continue
		}
		cleaned = append(cleaned, o)
	}
	// Empty AllowHeaders reflects whatever the preflight asks for.
	cfg := cors.Config{
		AllowMethods: "GET,POST,PUT,PATCH,DELETE,OPTIONS,HEAD",
	}
	// Fiber rejects credentials combined with a wildcard origin.
	if len(cleaned) > 0 {
		cfg.AllowOrigins = strings.Join(cleaned, ",")
		cfg.AllowCredentials = true
	}
	return cfg
}

func (h *handler) listPosts(c *fiber.Ctx) error {
	start := time.Now()

	var posts []blog.Post
	if err := h.posts.get(c.UserContext(), "/posts", requestID(c), &posts); err != nil {
		return err
	}

	h.log.Info("retrieved posts",
		zap.Int("count", len(posts)),
		zap.Duration("duration", time.Since(start)),
		zap.String("request_id", requestID(c)),
	)
	return c.JSON(posts)
}

func (h *handler) getPost(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return fiber.NewError(fiber.StatusUnprocessableEntity, "post id must be an integer")
	}
	start := time.Now()

	var post blog.Post
	if err := h.posts.get(c.UserContext(), fmt.Sprintf("/posts/%d", id), requestID(c), &post); err != nil {
		return err
	}

	h.log.Info("retrieved post",
		zap.String("title", post.Title),
		zap.Duration("duration", time.Since(start)),
		zap.String("request_id", requestID(c)),
	)
	return c.JSON(post)
}

func (h *handler) errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	detail := "Internal server error"

	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		detail = fe.Message
		if code >= fiber.StatusInternalServerError {
			h.log.Error("posts service call failed",
				zap.String("path", c.Path()),
				zap.Int("status", code),
				zap.String("detail", detail),
				zap.String("request_id", requestID(c)),
			)
		} else {
			h.log.Warn("request rejected",
				zap.String("path", c.Path()),
				zap.Int("status", code),
				zap.String("detail", detail),
				zap.String("request_id", requestID(c)),
			)
		}
	} else {
		h.log.Error("request failed",
			zap.String("path", c.Path()),
			zap.Error(err),
			zap.String("request_id", requestID(c)),
		)
	}
	return c.Status(code).JSON(fiber.Map{"detail": detail})
}

// requestContext scopes the user context to the request: it carries a
// deadline and ends when the server shuts down.
func requestContext(timeout time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.Context(), timeout)
		defer cancel()
		c.SetUserContext(ctx)
		return c.Next()
	}
}

func requestID(c *fiber.Ctx) string {
	id, _ := c.Locals("requestid").(string)
	return id
}
