package cli

import (
	"github.com/spf13/pflag"

	"github.com/replicate/tensorbackend/internal/config"
	"github.com/replicate/tensorbackend/internal/logging"
	"github.com/replicate/tensorbackend/pkg/backendmodel"
	"github.com/replicate/tensorbackend/pkg/global"
	"github.com/replicate/tensorbackend/pkg/repository"
	"github.com/replicate/tensorbackend/pkg/util/console"
)

func addModelFlags(flags *pflag.FlagSet, cfg *config.Config) {
	flags.StringVarP(&cfg.RepositoryRoot, "repository", "r", ".", "Model repository directory")
	flags.StringVarP(&cfg.ModelName, "model", "m", "", "Model name (a directory in the repository)")
	flags.Uint64Var(&cfg.ModelVersion, "version", 0, "Model version (0 for the latest)")
	flags.BoolVar(&cfg.AllowOptionalInputs, "allow-optional", false, "Accept inputs marked optional")
	flags.BoolVar(&cfg.StrictSchema, "strict", false, "Validate the configuration against the model configuration schema")
}

// loadModel opens the model in the repository, builds its index and marks it
// loaded, the way a serving process would before the first request.
func loadModel(cfg *config.Config) (*repository.Model, *backendmodel.Model, error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	hostModel, err := repository.Open(cfg.RepositoryRoot, cfg.ModelName, cfg.ModelVersion)
	if err != nil {
		return nil, nil, err
	}
	console.Debugf("Reading %s", hostModel.ConfigPath())

	logger := logging.NewNop()
	if global.Verbose {
		logger = logging.New("tensorbackend")
	}
	opts := []backendmodel.Option{backendmodel.WithLogger(logger)}
	if cfg.StrictSchema {
		opts = append(opts, backendmodel.WithSchemaValidation())
	}

	m, err := backendmodel.New(hostModel, cfg.AllowOptionalInputs, opts...)
	if err != nil {
		return nil, nil, err
	}
	if err := hostModel.MarkLoaded(); err != nil {
		return nil, nil, err
	}
	return hostModel, m, nil
}
