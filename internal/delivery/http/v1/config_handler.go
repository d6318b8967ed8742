package v1

import (
	"net/http"
	"time"

	"orderdesk-backend/internal/domain"
	"orderdesk-backend/pkg/cache"
	"orderdesk-backend/pkg/utils"
)

const enumsCacheKey = "system:config:enums"

type ConfigHandler struct {
	cache cache.CacheService
}

func NewConfigHandler(cache cache.CacheService) *ConfigHandler {
	return &ConfigHandler{cache: cache}
}

type enumOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

func options[T ~string](values []T) []enumOption {
	out := make([]enumOption, len(values))
	for i, v := range values {
		out[i] = enumOption{Value: string(v), Label: domain.Label(string(v))}
	}
	return out
}

// GET /api/v1/admin/config/enums
func (h *ConfigHandler) GetEnums(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "private, max-age=3600")

	if val, found := h.cache.Get(enumsCacheKey); found {
		utils.WriteJSON(w, http.StatusOK, val)
		return
	}

	response := map[string]interface{}{
		"orderStatuses":    options(domain.OrderStatuses),
		"paymentStatuses":  options(domain.PaymentStatuses),
		"orderTypes":       options(domain.OrderTypes),
		"decisionStatuses": options(domain.DecisionStatuses),
		"reasons":          options(domain.Reasons),
		"tabs":             options(domain.Tabs),
		"filterAll":        "all",
	}

	h.cache.Set(enumsCacheKey, response, 1*time.Hour)
	utils.WriteJSON(w, http.StatusOK, response)
}
