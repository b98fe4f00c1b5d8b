package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"profile-service/internal/profile"
	"profile-service/internal/validation"
)

const profileCacheTTL = 5 * time.Minute

func profileCacheKey(userID fmt.Stringer) string {
	return fmt.Sprintf("profile:%s", userID)
}

func (s *Server) getProfile(c *gin.Context) {
	userID := currentUserID(c)

	ctx, cancel := s.ctx(c)
	defer cancel()

	cacheKey := profileCacheKey(userID)
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, cacheKey); err == nil && cached != "" {
			// headers flush on the first body write, so X-Cache must be
			// set before the payload goes out
			c.Header("X-Cache", "HIT")
			c.Data(http.StatusOK, "application/json", []byte(cached))
			return
		}
	}

	view, err := s.profiles.Get(ctx, userID)
	if errors.Is(err, profile.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "User profile not found."})
		return
	}
	if err != nil {
		s.log.Error("profile_read_failed", "user_id", userID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Internal server error."})
		return
	}

	response := gin.H{"success": true, "data": view}

	if s.cache != nil {
		if jsonData, err := json.Marshal(response); err == nil {
			if err := s.cache.Set(ctx, cacheKey, string(jsonData), profileCacheTTL); err != nil {
				s.log.Warn("profile_cache_set_failed", "user_id", userID, "error", err)
			}
		}
	}

	c.JSON(http.StatusOK, response)
}

func (s *Server) updateProfile(c *gin.Context) {
	userID := currentUserID(c)

	var upd profile.Update
	if details, ok := decodeUpdate(c.Request.Body, &upd); !ok {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid input.", "details": details})
		return
	}

	if errs := validation.ValidateProfileUpdate(&upd); errs.HasErrors() {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid input.", "details": errs})
		return
	}

	// rejected before any transaction opens; an empty request is a client
	// error, not a no-op success
	if upd.IsEmpty() {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "No update fields provided."})
		return
	}

	ctx, cancel := s.ctx(c)
	defer cancel()

	if err := s.profiles.Apply(ctx, userID, &upd); err != nil {
		s.log.Error("profile_update_failed", "user_id", userID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Internal server error."})
		return
	}

	s.invalidateProfileCache(c, userID)

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Profile updated successfully."})
}

func (s *Server) uploadAvatar(c *gin.Context) {
	userID := currentUserID(c)

	fileHeader, err := c.FormFile("avatar")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid input.", "details": []validation.FieldError{
			{Field: "avatar", Message: "An image file is required"},
		}})
		return
	}
	if fileHeader.Size > 5*1024*1024 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid input.", "details": []validation.FieldError{
			{Field: "avatar", Message: "Image must be at most 5 MB"},
		}})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		s.log.Error("avatar_open_failed", "user_id", userID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Internal server error."})
		return
	}
	defer file.Close()

	imageData, err := io.ReadAll(file)
	if err != nil {
		s.log.Error("avatar_read_failed", "user_id", userID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Internal server error."})
		return
	}

	ctx, cancel := s.ctx(c)
	defer cancel()

	avatarURL, err := s.avatars.UploadAvatar(ctx, userID.String(), imageData)
	if err != nil {
		s.log.Error("avatar_upload_failed", "user_id", userID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Internal server error."})
		return
	}

	// the stored URL goes through the same upsert path as a regular PUT
	if err := s.profiles.Apply(ctx, userID, &profile.Update{AvatarURL: &avatarURL}); err != nil {
		s.log.Error("avatar_save_failed", "user_id", userID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Internal server error."})
		return
	}

	s.invalidateProfileCache(c, userID)

	c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{"avatarUrl": avatarURL}})
}

func (s *Server) health(c *gin.Context) {
	ctx, cancel := s.ctx(c)
	defer cancel()

	dbStatus := "connected"
	if s.db == nil || s.db.Pool.Ping(ctx) != nil {
		dbStatus = "disconnected"
	}

	redisStatus := "disabled"
	if s.redis != nil {
		redisStatus = "connected"
		if err := s.redis.RDB().Ping(ctx).Err(); err != nil {
			redisStatus = "disconnected"
		}
	}

	status := "healthy"
	if dbStatus != "connected" || redisStatus == "disconnected" {
		status = "unhealthy"
	}

	response := gin.H{
		"status":   status,
		"database": dbStatus,
		"redis":    redisStatus,
	}

	if status == "unhealthy" {
		c.JSON(http.StatusServiceUnavailable, response)
		return
	}
	c.JSON(http.StatusOK, response)
}

// decodeUpdate parses the request body into a partial update. Unknown keys are
// ignored (they simply contribute no recognized field); a non-string value for
// a known key is reported per field.
func decodeUpdate(body io.Reader, upd *profile.Update) ([]validation.FieldError, bool) {
	raw, err := io.ReadAll(io.LimitReader(body, 1<<20))
	if err != nil {
		return []validation.FieldError{{Field: "body", Message: "Unable to read request body"}}, false
	}

	if err := json.Unmarshal(raw, upd); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field != "" {
			return []validation.FieldError{{Field: typeErr.Field, Message: "Must be a string"}}, false
		}
		return []validation.FieldError{{Field: "body", Message: "Malformed JSON"}}, false
	}

	return nil, true
}

func (s *Server) invalidateProfileCache(c *gin.Context, userID fmt.Stringer) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(c.Request.Context(), profileCacheKey(userID)); err != nil {
		s.log.Warn("profile_cache_invalidate_failed", "user_id", userID, "error", err)
	}
}
