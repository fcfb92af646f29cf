package service

import (
	"github.com/modlearn/modlearn/app/core"
	"github.com/modlearn/modlearn/app/core/srv"
	"github.com/modlearn/modlearn/app/response"
	"github.com/modlearn/modlearn/cmd/service/handler"
	"github.com/modlearn/modlearn/cmd/service/middleware"
	"github.com/modlearn/modlearn/pkg/metrics"
)

func serve(core *core.Core) {
	httpSrv := &handler.HttpSrv{
		Core:   core,
		Engine: core.HttpEngine(),
	}
	setupHttpRouter(httpSrv)

	core.HttpEngine().Run(core.Cfg().Addr)
}

func setupHttpRouter(s *handler.HttpSrv) {
	s.Engine.Use(middleware.I18n(), response.NewResponse())
	s.Engine.Use(middleware.Cors)
	s.Engine.Use(middleware.AcceptLanguage())

	s.Engine.GET("/metrics", metrics.DefaultExportHandler())

	apiV1 := s.Engine.Group("/api/v1")
	{
		apiV1.POST("/register", s.Register)
		apiV1.POST("/login", s.Login)

		// 公开目录
		apiV1.GET("/contents", s.ListContents)
		apiV1.GET("/contents/:contentid", s.GetContent)
		apiV1.GET("/categories", s.ListCategories)
		apiV1.GET("/genres", s.ListGenres)
		apiV1.GET("/playlists/:playlistid", s.GetPlaylist)

		authed := apiV1.Group("")
		authed.Use(middleware.Authorization(s.Core))

		user := authed.Group("/user")
		{
			user.GET("/info", s.GetUser)
			user.PUT("/profile", s.UpdateUserProfile)
			user.POST("/logout", s.Logout)
			user.PUT("/role", s.UpdateUserRole)
		}

		file := authed.Group("/file")
		file.Use(middleware.VerifyPermission(s.Core, srv.PermissionCreate))
		{
			file.POST("/upload", s.CreateUploadRequest)
			file.GET("/list", s.ListFiles)
			file.GET("/:fileid/download", s.CreateDownloadURL)
			file.GET("/:fileid/status", s.GetFileStatus)
			file.DELETE("/:fileid", s.DeleteFile)
		}

		content := authed.Group("/content")
		content.Use(middleware.VerifyPermission(s.Core, srv.PermissionCreate))
		{
			content.POST("", s.CreateContent)
			content.PUT("/:contentid", s.UpdateContent)
			content.PUT("/:contentid/publish", s.PublishContent)
			content.DELETE("/:contentid", s.DeleteContent)
		}

		// 播放鉴权在逻辑层完成，免费内容登录即可播放
		authed.GET("/contents/:contentid/playback", s.GetPlaybackURL)

		playlist := authed.Group("/playlist")
		playlist.Use(middleware.VerifyPermission(s.Core, srv.PermissionCreate))
		{
			playlist.POST("", s.CreatePlaylist)
			playlist.GET("/list", s.ListMyPlaylists)
			playlist.PUT("/:playlistid", s.UpdatePlaylist)
			playlist.DELETE("/:playlistid", s.DeletePlaylist)
			playlist.POST("/:playlistid/episodes", s.AddPlaylistEpisode)
			playlist.DELETE("/:playlistid/episodes/:episodeid", s.RemovePlaylistEpisode)
		}

		cart := authed.Group("/cart")
		{
			cart.GET("", s.GetCart)
			cart.POST("/items", s.AddToCart)
			cart.DELETE("/items/:itemid", s.RemoveFromCart)
		}

		order := authed.Group("/order")
		{
			order.POST("/checkout", s.Checkout)
			order.POST("/payment/confirm", s.ConfirmPayment)
			order.GET("/list", s.ListOrders)
			order.GET("/:orderid", s.GetOrder)
		}

		authed.GET("/purchases", s.ListPurchases)

		admin := authed.Group("/admin")
		admin.Use(middleware.VerifyPermission(s.Core, srv.PermissionAdmin))
		{
			admin.POST("/category", s.CreateCategory)
			admin.DELETE("/category/:id", s.DeleteCategory)
			admin.POST("/genre", s.CreateGenre)
			admin.DELETE("/genre/:id", s.DeleteGenre)
		}
	}
}
