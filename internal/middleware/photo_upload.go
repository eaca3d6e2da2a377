package middleware

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const LocalUploadPath = "upload_path"

// PhotoUpload stores the multipart image in field under dir and exposes its
// path in Locals. The file is removed once the handler returns. A missing
// file is allowed unless required is set.
func PhotoUpload(field, dir string, maxBytes int64, required bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fh, err := c.FormFile(field)
		if err != nil {
			if required {
				return fiber.NewError(fiber.StatusBadRequest, "image is required")
			}
			return c.Next()
		}
		if !strings.HasPrefix(fh.Header.Get(fiber.HeaderContentType), "image/") {
			return fiber.NewError(fiber.StatusBadRequest, "Unsupported file format")
		}
		if maxBytes > 0 && fh.Size > maxBytes {
			return fiber.NewError(fiber.StatusRequestEntityTooLarge, "File too large")
		}

		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
		path := filepath.Join(dir, uuid.NewString()+strings.ToLower(filepath.Ext(fh.Filename)))
		if err := c.SaveFile(fh, path); err != nil {
			return err
		}
		defer func() {
			if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
				slog.Warn("temp upload not removed", "path", path, "err", err)
			}
		}()

		c.Locals(LocalUploadPath, path)
		return c.Next()
	}
}

// UploadPath returns the stored upload for this request, or "".
func UploadPath(c *fiber.Ctx) string {
	p, _ := c.Locals(LocalUploadPath).(string)
	return p
}
