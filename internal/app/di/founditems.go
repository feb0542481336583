package di

import (
	"finditnow_backend/internal/app/config"
	"finditnow_backend/internal/feature/founditems/transport/handler"
	"finditnow_backend/internal/feature/founditems/usecase"
)

// NewFoundItemsHandler は落とし物管理エンドポイントのハンドラーを組み立てます。
func NewFoundItemsHandler(cfg config.Config, store usecase.ObjectStore) *handler.FoundItemsHandler {
	uc := usecase.NewFoundItemsUsecase(store, cfg.Search.MaxImageSize)
	return handler.NewFoundItemsHandler(uc, cfg.Server.MaxBodySize)
}
