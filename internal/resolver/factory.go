package resolver

import (
	"github.com/google/go-dap"
	"github.com/sirupsen/logrus"

	"github.com/philjestin/pathresolver/internal/launch"
)

// Factory builds the resolver for a session's launch configuration. Its
// collaborators are fixed at construction so Create is a pure function of
// the configuration.
type Factory struct {
	initialize dap.InitializeRequestArguments
	log        logrus.FieldLogger
	vfs        VirtualFileMapper
	fs         FsUtils
}

// NewFactory creates a Factory. initialize is the client's DAP initialize
// request; its ClientID is passed on to browser resolvers. vfs may be nil.
func NewFactory(initialize dap.InitializeRequestArguments, log logrus.FieldLogger, vfs VirtualFileMapper, fs FsUtils) *Factory {
	return &Factory{initialize: initialize, log: log, vfs: vfs, fs: fs}
}

// Create classifies cfg and constructs the matching resolver.
func (f *Factory) Create(cfg *launch.Config) Resolver {
	v := Classify(cfg)
	switch opts := Build(v, cfg, f.initialize.ClientID).(type) {
	case NodeOptions:
		return NewNodeResolver(f.fs, opts, f.log)
	case BrowserOptions:
		if v == VariantBlazor {
			return NewBlazorResolver(f.vfs, f.fs, opts, f.log)
		}
		return NewBrowserResolver(f.vfs, f.fs, opts, f.log)
	default:
		panic("resolver: unhandled options type")
	}
}
