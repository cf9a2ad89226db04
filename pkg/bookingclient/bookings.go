package bookingclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

// CreateAppointment books a slot. Conflicts come back as KindConflict.
func (c *Client) CreateAppointment(ctx context.Context, req CreateAppointmentRequest) (*Appointment, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("bookingclient: marshal booking: %w", err)
	}
	data, err := c.invoke(ctx, http.MethodPost, "/api/appointments", nil, body)
	if err != nil {
		return nil, err
	}
	return decodeInto[Appointment](data)
}

// GetAvailableSlots resolves bookable times for a date. When the primary
// endpoint fails it falls back to the legacy rule-derived endpoint, and when
// both fail it returns an empty list rather than an error: the booking form
// can always render.
func (c *Client) GetAvailableSlots(ctx context.Context, date string) ([]ResolvedSlot, error) {
	q := url.Values{}
	q.Set("date", date)

	data, err := c.invoke(ctx, http.MethodGet, "/api/slots", q, nil)
	if err == nil {
		resp, derr := decodeInto[slotsResponse](data)
		if derr == nil {
			return resp.Slots, nil
		}
		err = derr
	}
	if IsKind(err, KindValidation) {
		return nil, err
	}
	c.logger.Warn("slot endpoint failed, trying legacy", "date", date, "error", err)

	data, err = c.invoke(ctx, http.MethodGet, "/api/slots/legacy", q, nil)
	if err == nil {
		resp, derr := decodeInto[slotsResponse](data)
		if derr == nil {
			return resp.Slots, nil
		}
		err = derr
	}
	if IsKind(err, KindValidation) {
		return nil, err
	}
	c.logger.Warn("legacy slot endpoint failed, returning no slots", "date", date, "error", err)
	return []ResolvedSlot{}, nil
}

// GetAppointment fetches one appointment (admin).
func (c *Client) GetAppointment(ctx context.Context, id string) (*Appointment, error) {
	data, err := c.invoke(ctx, http.MethodGet, "/api/admin/appointments/"+id, nil, nil)
	if err != nil {
		return nil, err
	}
	return decodeInto[Appointment](data)
}

// ListAppointments returns appointments within a date range (admin).
func (c *Client) ListAppointments(ctx context.Context, from, to string) ([]Appointment, error) {
	q := url.Values{}
	q.Set("from", from)
	q.Set("to", to)
	data, err := c.invoke(ctx, http.MethodGet, "/api/admin/appointments", q, nil)
	if err != nil {
		return nil, err
	}
	resp, err := decodeInto[listResponse](data)
	if err != nil {
		return nil, err
	}
	return resp.Appointments, nil
}

// UpdateAppointmentStatus moves an appointment to a new status (admin).
// Illegal transitions and concurrent edits come back as KindConflict with the
// server's current row untouched.
func (c *Client) UpdateAppointmentStatus(ctx context.Context, id, status string) (*Appointment, error) {
	body, err := json.Marshal(map[string]string{"status": status})
	if err != nil {
		return nil, fmt.Errorf("bookingclient: marshal status: %w", err)
	}
	data, err := c.invoke(ctx, http.MethodPatch, "/api/admin/appointments/"+id+"/status", nil, body)
	if err != nil {
		return nil, err
	}
	return decodeInto[Appointment](data)
}

// DeleteAppointment removes an appointment (admin). A row already deleted by
// someone else is treated as success.
func (c *Client) DeleteAppointment(ctx context.Context, id string) error {
	_, err := c.invoke(ctx, http.MethodDelete, "/api/admin/appointments/"+id, nil, nil)
	if IsKind(err, KindNotFound) {
		c.logger.Info("appointment already gone", "id", id)
		return nil
	}
	return err
}

// SearchAppointments looks up bookings by partial name and phone.
func (c *Client) SearchAppointments(ctx context.Context, name, phone string) ([]Appointment, error) {
	q := url.Values{}
	q.Set("name", name)
	q.Set("phone", phone)
	data, err := c.invoke(ctx, http.MethodGet, "/api/appointments/search", q, nil)
	if err != nil {
		return nil, err
	}
	resp, err := decodeInto[searchResponse](data)
	if err != nil {
		return nil, err
	}
	return resp.Appointments, nil
}

// GetStats fetches per-status appointment counts (admin).
func (c *Client) GetStats(ctx context.Context) (*Stats, error) {
	data, err := c.invoke(ctx, http.MethodGet, "/api/admin/stats", nil, nil)
	if err != nil {
		return nil, err
	}
	return decodeInto[Stats](data)
}

// GetCalendar fetches the admin calendar grid. When the endpoint fails it
// reconstructs an occupied-only view from the appointment list so the admin
// screen degrades instead of going blank.
func (c *Client) GetCalendar(ctx context.Context, start, end string) ([]CalendarEntry, error) {
	q := url.Values{}
	q.Set("start", start)
	q.Set("end", end)
	data, err := c.invoke(ctx, http.MethodGet, "/api/admin/calendar", q, nil)
	if err == nil {
		resp, derr := decodeInto[calendarResponse](data)
		if derr == nil {
			return resp.Entries, nil
		}
		err = derr
	}
	if IsKind(err, KindValidation) || IsKind(err, KindUnauthorized) {
		return nil, err
	}
	c.logger.Warn("calendar endpoint failed, rebuilding from appointments", "error", err)

	appts, lerr := c.ListAppointments(ctx, start, end)
	if lerr != nil {
		return nil, err
	}
	var entries []CalendarEntry
	for _, a := range appts {
		if a.Status == "cancelled" {
			continue
		}
		entries = append(entries, CalendarEntry{
			Date:          a.Date,
			Time:          a.Time,
			Available:     false,
			Status:        a.Status,
			AppointmentID: a.ID,
			PatientName:   a.Name,
		})
	}
	return entries, nil
}

// ListNotifications fetches a user's notification feed.
func (c *Client) ListNotifications(ctx context.Context, userEmail string) ([]Notification, error) {
	q := url.Values{}
	q.Set("user", userEmail)
	data, err := c.invoke(ctx, http.MethodGet, "/api/notifications", q, nil)
	if err != nil {
		return nil, err
	}
	resp, err := decodeInto[notificationsResponse](data)
	if err != nil {
		return nil, err
	}
	return resp.Notifications, nil
}

// UnreadNotifications returns how many unread notifications a user has.
func (c *Client) UnreadNotifications(ctx context.Context, userEmail string) (int64, error) {
	q := url.Values{}
	q.Set("user", userEmail)
	data, err := c.invoke(ctx, http.MethodGet, "/api/notifications/unread", q, nil)
	if err != nil {
		return 0, err
	}
	var parsed map[string]int64
	if err := json.Unmarshal(data, &parsed); err != nil {
		return 0, fmt.Errorf("bookingclient: decode unread count: %w", err)
	}
	return parsed["unread"], nil
}

// MarkNotificationRead flags a notification as read.
func (c *Client) MarkNotificationRead(ctx context.Context, id string) error {
	_, err := c.invoke(ctx, http.MethodPost, "/api/notifications/"+id+"/read", nil, nil)
	return err
}

// Register creates an account and stores the session on the client.
func (c *Client) Register(ctx context.Context, email, name, password string) (*Session, error) {
	return c.openSession(ctx, "/api/auth/register", map[string]string{
		"email": email, "name": name, "password": password,
	})
}

// Login exchanges credentials for a session and stores it on the client.
func (c *Client) Login(ctx context.Context, email, password string) (*Session, error) {
	return c.openSession(ctx, "/api/auth/login", map[string]string{
		"email": email, "password": password,
	})
}

func (c *Client) openSession(ctx context.Context, path string, payload map[string]string) (*Session, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("bookingclient: marshal credentials: %w", err)
	}
	data, err := c.invoke(ctx, http.MethodPost, path, nil, body)
	if err != nil {
		return nil, err
	}
	sess, err := decodeInto[Session](data)
	if err != nil {
		return nil, err
	}
	c.SetToken(sess.Token)
	return sess, nil
}

// Logout revokes the current session and clears the stored token.
func (c *Client) Logout(ctx context.Context) error {
	if c.token == "" {
		return nil
	}
	_, err := c.invoke(ctx, http.MethodPost, "/api/auth/logout", nil, nil)
	if err != nil && !IsKind(err, KindUnauthorized) {
		return err
	}
	c.SetToken("")
	return nil
}
