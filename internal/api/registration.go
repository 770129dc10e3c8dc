package api

import (
	"net/http"

	"verm_airdrop/internal/api/response"
	"verm_airdrop/internal/model"
	"verm_airdrop/internal/service"
	"verm_airdrop/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type registrationRoutes struct {
	rs service.RegistrationServiceI
	vs service.VerificationServiceI
}

func NewRegistrationRoutes(handler *gin.RouterGroup, rs service.RegistrationServiceI, vs service.VerificationServiceI, limits Limits) {
	r := &registrationRoutes{rs: rs, vs: vs}

	handler.POST("/registration", handlers(limits.Registration, r.Register)...)
	handler.GET("/registration/:wallet_address", handlers(limits.General, r.GetRegistration)...)
	handler.PUT("/registration/verify", handlers(limits.Verification, r.UpdateVerification)...)
	handler.GET("/registration-stats", handlers(limits.General, r.GetStats)...)
}

func (r *registrationRoutes) Register(c *gin.Context) {
	var req model.RegistrationRequest
	if !bindJSON(c, &req) {
		return
	}

	reg, err := r.rs.Register(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	logger.Logger().Info("registration created", zap.Int64("registration_id", reg.ID))
	response.OK(c, http.StatusCreated, gin.H{
		"message":      "Registration successful",
		"registration": reg,
	})
}

func (r *registrationRoutes) GetRegistration(c *gin.Context) {
	reg, err := r.rs.GetRegistration(c.Request.Context(), c.Param("wallet_address"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, http.StatusOK, gin.H{"registration": reg})
}

func (r *registrationRoutes) UpdateVerification(c *gin.Context) {
	var req model.VerificationUpdate
	if !bindJSON(c, &req) {
		return
	}

	reg, err := r.vs.UpdateVerification(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, http.StatusOK, gin.H{
		"message":      "Verification updated",
		"registration": reg,
	})
}

func (r *registrationRoutes) GetStats(c *gin.Context) {
	stats, err := r.rs.GetStats(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, http.StatusOK, gin.H{"stats": stats})
}
