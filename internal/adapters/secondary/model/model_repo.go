package model

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"credit-scoring-api/internal/adapters/secondary/artifact"
	ports "credit-scoring-api/internal/core/ports/output"
)

type modelRepo struct {
	resolver *artifact.Resolver
	filename string
}

// NewModelRepository loads the classifier artifact located by resolver.
func NewModelRepository(resolver *artifact.Resolver, filename string) ports.ModelRepository {
	return &modelRepo{resolver: resolver, filename: filename}
}

func (r *modelRepo) LoadModel(ctx context.Context) (ports.Classifier, error) {
	path, err := r.resolver.Resolve(r.filename)
	if err != nil {
		return nil, err
	}

	log.WithField("path", path).Info("loading model")

	data, err := afero.ReadFile(r.resolver.Fs, path)
	if err != nil {
		return nil, fmt.Errorf("read model %s: %w", path, err)
	}

	classifier, err := Decode(data, Format(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return classifier, nil
}
