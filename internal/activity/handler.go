package activity

import (
	"strconv"

	"simasosial-backend/internal/apperr"
	"simasosial-backend/internal/auth"

	"github.com/gofiber/fiber/v2"
)

const (
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	msgExportFailed = "Gagal membuat file ekspor."
)

// ParseID reads the :id route parameter. Anything that is not a positive
// integer cannot name an activity and is answered as not found.
func ParseID(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, apperr.NotFound(msgNotFound)
	}
	return uint(id), nil
}

func formInput(c *fiber.Ctx) Input {
	in := Input{
		Judul:         c.FormValue("judul"),
		Tipe:          c.FormValue("tipe"),
		Deskripsi:     c.FormValue("deskripsi"),
		Lokasi:        c.FormValue("lokasi"),
		TanggalMulai:  c.FormValue("tanggal_mulai"),
		TargetDonasi:  c.FormValue("target_donasi"),
		TargetPeserta: c.FormValue("target_peserta"),
	}
	if fh, err := c.FormFile("gambar"); err == nil {
		in.Gambar = fh
	}
	return in
}

// GET /api/activities
func ListPublishedHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		list, err := svc.ListPublished(c.UserContext())
		if err != nil {
			return err
		}
		return c.JSON(list)
	}
}

// GET /api/activities/:id
func GetHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := ParseID(c)
		if err != nil {
			return err
		}
		a, err := svc.Get(c.UserContext(), id)
		if err != nil {
			return err
		}
		return c.JSON(a)
	}
}

// GET /api/admin/activities
func ListHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		list, err := svc.List(c.UserContext())
		if err != nil {
			return err
		}
		return c.JSON(list)
	}
}

// POST /api/admin/activities (multipart/form-data, optional file "gambar")
func CreateHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := auth.MustIdentity(c)
		if err != nil {
			return err
		}

		a, err := svc.Create(c.UserContext(), actor, formInput(c))
		if err != nil {
			return err
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"message":    "Kegiatan berhasil ditambahkan!",
			"insertedId": a.ID,
		})
	}
}

// PUT /api/admin/activities/:id
func UpdateHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := auth.MustIdentity(c)
		if err != nil {
			return err
		}
		id, err := ParseID(c)
		if err != nil {
			return err
		}

		if _, err := svc.Update(c.UserContext(), actor, id, formInput(c)); err != nil {
			return err
		}
		return c.JSON(fiber.Map{"message": "Kegiatan berhasil diupdate!"})
	}
}

// DELETE /api/admin/activities/:id
func DeleteHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := auth.MustIdentity(c)
		if err != nil {
			return err
		}
		id, err := ParseID(c)
		if err != nil {
			return err
		}

		if _, err := svc.Delete(c.UserContext(), actor, id); err != nil {
			return err
		}
		return c.JSON(fiber.Map{"message": "Kegiatan berhasil dihapus!"})
	}
}

// GET /api/admin/activities/export
func ExportHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		rows, err := svc.Summaries(c.UserContext())
		if err != nil {
			return err
		}

		buf, err := BuildWorkbook(rows)
		if err != nil {
			return apperr.Server(msgExportFailed, err)
		}

		c.Attachment("kegiatan.xlsx")
		c.Set(fiber.HeaderContentType, xlsxContentType)
		return c.Send(buf.Bytes())
	}
}
