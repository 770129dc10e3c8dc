package api

import (
	"net/http"

	"verm_airdrop/internal/api/response"
	"verm_airdrop/internal/model"
	"verm_airdrop/internal/service"
	"verm_airdrop/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

type referralRoutes struct {
	rs service.ReferralServiceI
}

func NewReferralRoutes(handler *gin.RouterGroup, rs service.ReferralServiceI, limits Limits) {
	r := &referralRoutes{rs: rs}

	h := handler.Group("/referral")
	{
		h.GET("/:wallet", handlers(limits.General, r.GetReferralInfo)...)
		h.POST("/track", handlers(limits.General, r.TrackReferral)...)
	}
}

type ReferralInfoResponse struct {
	ReferralCode  string `json:"referral_code"`
	TotalReferred int    `json:"total_referred"`
}

func (r *referralRoutes) GetReferralInfo(c *gin.Context) {
	rec, err := r.rs.GetOrCreate(c.Request.Context(), c.Param("wallet"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, http.StatusOK, gin.H{
		"info": ReferralInfoResponse{
			ReferralCode:  rec.ReferralCode,
			TotalReferred: rec.TotalReferred,
		},
	})
}

func (r *referralRoutes) TrackReferral(c *gin.Context) {
	var req model.TrackReferralRequest
	if !bindJSON(c, &req) {
		return
	}

	ok, err := r.rs.TrackEvent(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	if !ok {
		response.Error(c, apperrors.Validation("Failed to track referral"))
		return
	}

	response.OK(c, http.StatusOK, nil)
}
