package announcements

import (
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jollyhome/jollyhome-api/internal/apps/apptest"
)

func TestAnnouncementRoutes_Open(t *testing.T) {
	h := apptest.New(t, false, New())

	status, raw := h.Do(t, "POST", "/announcement", "", CreateAnnouncementRequest{Title: "Water outage", Description: "Tuesday 9-12"})
	require.Equal(t, fiber.StatusCreated, status, string(raw))
	var created Announcement
	apptest.Decode(t, raw, &created)
	assert.Equal(t, StatusUnread, created.Status)

	status, raw = h.Do(t, "PATCH", "/announcements/"+created.ID.String(), "", UpdateStatusRequest{Status: StatusRead})
	require.Equal(t, fiber.StatusOK, status)
	assert.JSONEq(t, `{"acknowledged":true}`, string(raw))

	// Same status again is still acknowledged.
	status, _ = h.Do(t, "PATCH", "/announcements/"+created.ID.String(), "", UpdateStatusRequest{Status: StatusRead})
	assert.Equal(t, fiber.StatusOK, status)

	status, _ = h.Do(t, "PATCH", "/announcements/"+uuid.NewString(), "", UpdateStatusRequest{Status: StatusRead})
	assert.Equal(t, fiber.StatusNotFound, status)

	status, raw = h.Do(t, "GET", "/announcement", "", nil)
	require.Equal(t, fiber.StatusOK, status)
	var list []Announcement
	apptest.Decode(t, raw, &list)
	require.Len(t, list, 1)
	assert.Equal(t, StatusRead, list[0].Status)
}

func TestAnnouncementRoutes_Hardened(t *testing.T) {
	h := apptest.New(t, true, New())
	member := h.Member(t, "member@x.com")
	admin := h.Admin(t, "admin@x.com")
	body := CreateAnnouncementRequest{Title: "Lift maintenance"}

	status, _ := h.Do(t, "POST", "/announcement", "", body)
	assert.Equal(t, fiber.StatusUnauthorized, status)

	status, _ = h.Do(t, "POST", "/announcement", member, body)
	assert.Equal(t, fiber.StatusForbidden, status)

	status, _ = h.Do(t, "POST", "/announcement", admin, body)
	assert.Equal(t, fiber.StatusCreated, status)

	status, _ = h.Do(t, "GET", "/announcement", "", nil)
	assert.Equal(t, fiber.StatusOK, status)
}
