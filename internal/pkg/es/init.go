package es

import (
	"Petrel/internal/api/config"
	"context"
	log "log/slog"

	"github.com/elastic/go-elasticsearch/v8"
)

var Client *elasticsearch.TypedClient

var NoteIndex string

const (
	NotFoundCode = 404
	ConflictCode = 409
)

func InitClient() error {
	elasticCfg := config.Cfg.Elastic

	NoteIndex = elasticCfg.NoteIndex

	cfg := elasticsearch.Config{
		Addresses: []string{elasticCfg.Address},
		Username:  elasticCfg.Username,
		Password:  elasticCfg.Password,
	}

	var err error
	Client, err = elasticsearch.NewTypedClient(cfg)
	if err != nil {
		log.Error("cannot connect to elasticsearch", "err", err)
		return err
	}

	info, err := Client.Info().Do(context.Background())
	if err != nil {
		log.Error("cannot connect to elasticsearch", "err", err)
		return err
	}

	log.Info("connected to elasticsearch", "version", info.Version.Int)
	return nil
}
