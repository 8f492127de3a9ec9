package api

import "github.com/gin-gonic/gin"

func (s *Server) RegisterRoutes(r *gin.Engine) {
	api := r.Group("/api")
	{
		api.GET("/health", s.health)
		api.POST("/deck/analyze", s.throttle, s.analyzeHandler)
		api.POST("/deck/relink", s.relinkHandler)
		api.GET("/replays", s.listReplaysHandler)
		api.POST("/replays", s.saveReplayHandler)
		api.GET("/replays/:id", s.getReplayHandler)
		api.DELETE("/replays/:id", s.deleteReplayHandler)
		api.GET("/replays/:id/qr", s.replayQRHandler)
	}
}
