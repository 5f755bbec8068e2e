package middleware

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v3"

	"github.com/trendlens/trendlens-go/internal/model"
)

// Field length limits matching database schema constraints.
const (
	MaxVideoIDLen    = 16  // outlier_videos.video_id VARCHAR(16)
	MaxCategoryIDLen = 8   // trend_snapshots.category_id VARCHAR(8)
	MaxTopicLen      = 200 // sanity cap, column is TEXT

	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

var (
	// videoIDRe matches YouTube video IDs: alphanumeric, dash, underscore.
	videoIDRe = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)
	// regionRe matches two-letter region codes (ISO 3166-1 alpha-2).
	regionRe = regexp.MustCompile(`^[A-Za-z]{2}$`)
	// categoryIDRe matches numeric YouTube category IDs.
	categoryIDRe = regexp.MustCompile(`^[0-9]+$`)
)

// ErrorResponse is a helper that returns a standard API error response.
func ErrorResponse(c fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"error": fiber.Map{
			"code":    code,
			"message": message,
		},
	})
}

// ValidateVideoID checks that a video ID is well-formed and within DB limits.
func ValidateVideoID(id string) (string, string) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", "videoId is required"
	}
	if len(id) > MaxVideoIDLen {
		return "", "videoId must be at most 16 characters"
	}
	if !videoIDRe.MatchString(id) {
		return "", "videoId contains invalid characters"
	}
	return id, ""
}

// ValidateRegionCode checks the region code format and normalizes it to
// upper case. Whether the region actually exists is the upstream's call.
func ValidateRegionCode(code string) (string, string) {
	code = strings.TrimSpace(code)
	if code == "" {
		return "", "regionCode is required"
	}
	if !regionRe.MatchString(code) {
		return "", "regionCode must be a two-letter country code"
	}
	return strings.ToUpper(code), ""
}

// ValidateCategoryID checks an optional category ID. Empty is valid and
// means "all categories".
func ValidateCategoryID(id string) (string, string) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", ""
	}
	if len(id) > MaxCategoryIDLen {
		return "", "categoryId must be at most 8 characters"
	}
	if !categoryIDRe.MatchString(id) {
		return "", "categoryId must be numeric"
	}
	return id, ""
}

// ValidateOutlierType checks an optional outlier type filter. Empty is
// valid and means "all types".
func ValidateOutlierType(t string) (string, string) {
	t = strings.TrimSpace(strings.ToLower(t))
	if t == "" {
		return "", ""
	}
	if !model.ValidOutlierTypes[t] {
		return "", "type must be one of view_spike, rapid_growth, engagement_spike"
	}
	return t, ""
}

// ValidateSnapshotType checks a snapshot type, defaulting empty input to
// the given fallback.
func ValidateSnapshotType(t, fallback string) (string, string) {
	t = strings.TrimSpace(strings.ToLower(t))
	if t == "" {
		t = fallback
	}
	if !model.ValidSnapshotTypes[t] {
		return "", "type must be one of trending, search, category"
	}
	return t, ""
}

// ValidatePage parses limit/offset query values, applying the default page
// size and capping the limit.
func ValidatePage(limitStr, offsetStr string) (limit, offset int, errMsg string) {
	limit = DefaultPageLimit
	if limitStr != "" {
		n, err := strconv.Atoi(limitStr)
		if err != nil || n < 1 {
			return 0, 0, "limit must be a positive integer"
		}
		limit = min(n, MaxPageLimit)
	}

	if offsetStr != "" {
		n, err := strconv.Atoi(offsetStr)
		if err != nil || n < 0 {
			return 0, 0, "offset must be a non-negative integer"
		}
		offset = n
	}

	return limit, offset, ""
}

// ValidateTopicText trims and bounds a topic's text.
func ValidateTopicText(topic string) (string, string) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return "", "topic is required"
	}
	if len(topic) > MaxTopicLen {
		return "", "topic must be at most 200 characters"
	}
	return topic, ""
}
