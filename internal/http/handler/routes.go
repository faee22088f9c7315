package handler

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"sqlrepo/internal/service"
)

// Pinger reports whether the database is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
func RegisterRoutes(app *fiber.App, db Pinger, itemSvc service.ItemService, gatherer prometheus.Gatherer) {
	app.Get("/health", HealthCheck(db))
	app.Get("/healthz", LivenessProbe())
	if gatherer != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	}

	app.Get("/items", ListItems(itemSvc))
	app.Get("/items/count", CountItems(itemSvc))
	app.Get("/items/:id", GetItem(itemSvc))
	app.Post("/items", CreateItem(itemSvc))
	app.Post("/items/batch", CreateItems(itemSvc))
	app.Put("/items/:id", UpdateItem(itemSvc))
	app.Delete("/items/:id", DeleteItem(itemSvc))
}

// HealthCheck checks DB connectivity only.
func HealthCheck(db Pinger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			return writeError(c, fiber.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "dependency unavailable")
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "healthy"})
	}
}

// LivenessProbe always answers 200.
func LivenessProbe() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	}
}

// ListItems lists items, optionally filtered by ?name=.
func ListItems(svc service.ItemService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		res, err := svc.List(c.UserContext(), c.Query("name"))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	}
}

// CountItems returns {"count": n}, optionally filtered by ?name=.
func CountItems(svc service.ItemService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		n, err := svc.Count(c.UserContext(), c.Query("name"))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(fiber.Map{"count": n})
	}
}

// GetItem returns a single item.
func GetItem(svc service.ItemService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := parseID(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		item, err := svc.Get(c.UserContext(), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(item)
	}
}

// CreateItem stores a single item from a JSON body.
func CreateItem(svc service.ItemService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in service.ItemInput
		if err := c.BodyParser(&in); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		item, err := svc.Create(c.UserContext(), in)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(item)
	}
}

// CreateItems stores a JSON array of items in one transaction.
func CreateItems(svc service.ItemService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in []service.ItemInput
		if err := c.BodyParser(&in); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		if len(in) == 0 {
			return writeError(c, fiber.StatusBadRequest, "EMPTY_BATCH", "at least one item is required")
		}
		results, err := svc.CreateBatch(c.UserContext(), in)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": results})
	}
}

// UpdateItem overwrites the writable fields of an item.
func UpdateItem(svc service.ItemService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := parseID(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		var in service.ItemInput
		if err := c.BodyParser(&in); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		item, err := svc.Update(c.UserContext(), id, in)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(item)
	}
}

// DeleteItem removes an item.
func DeleteItem(svc service.ItemService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := parseID(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		if err := svc.Delete(c.UserContext(), id); err != nil {
			return writeServiceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

func parseID(c *fiber.Ctx) (int64, bool) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// writeServiceError maps service sentinels to HTTP statuses.
func writeServiceError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrNotFound):
		return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "item not found")
	case errors.Is(err, service.ErrIDRequired):
		return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
	case errors.Is(err, service.ErrInvalid):
		return writeError(c, fiber.StatusUnprocessableEntity, "VALIDATION_FAILED", err.Error())
	default:
		return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}
}
