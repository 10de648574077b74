package server

import (
	"os/signal"
	"runtime"
	"syscall"

	"github.com/ValentinKolb/travels/lib/loader"
	"github.com/ValentinKolb/travels/lib/store"
	"github.com/ValentinKolb/travels/lib/store/lstore"
	"github.com/ValentinKolb/travels/rpc/common"
	"github.com/ValentinKolb/travels/rpc/serializer"
	"github.com/ValentinKolb/travels/rpc/transport"
	"github.com/cockroachdb/errors"
	"github.com/lni/dragonboat/v4/logger"
)

var Logger = logger.GetLogger("rpc")

// NewRPCServer creates a new RPC server
// It takes a config, transport and serializer as parameters
//
// Usage:
//
//	s := server.NewRPCServer(
//		*config,
//		http.NewHttpServerTransport(),
//		serializer.NewFastSerializer(),
//	)
//
//	if err := s.Serve(); err != nil {
//		panic(err)
//	 }
func NewRPCServer(
	config common.ServerConfig,
	transport transport.IRPCServerTransport,
	serializer serializer.IRPCSerializer,
) *RPCServer {
	// https://github.com/golang/go/issues/17393
	if runtime.GOOS == "darwin" {
		signal.Ignore(syscall.Signal(0xd))
	}

	// Create the RPC server
	return &RPCServer{
		config:     config,
		transport:  transport,
		serializer: serializer,
		adapter:    NewIStoreServerAdapter(serializer, config.ZeroAsAbsent),
	}
}

// RPCServer serves one store over a transport.
type RPCServer struct {
	config     common.ServerConfig
	transport  transport.IRPCServerTransport
	serializer serializer.IRPCSerializer
	adapter    IRPCServerAdapter
	store      store.IStore
}

// Store returns the served store, nil before the server is initialized.
func (s *RPCServer) Store() store.IStore {
	return s.store
}

// Handle answers a single request against the served store.
func (s *RPCServer) Handle(req transport.Request) transport.Response {
	return s.adapter.Handle(req, s.store)
}

func (s *RPCServer) registerTransportHandler() {
	s.transport.RegisterHandler(s.Handle)
}

// Bootstrap reads the options file, creates a local store and loads the data
// source into it. The reference time from the config takes precedence over
// the options file.
func Bootstrap(config common.ServerConfig, dec loader.Decoder) (store.IStore, loader.Options, loader.Counts, error) {
	opts, err := loader.ReadOptionsFile(config.OptionsPath())
	switch {
	case err != nil && config.ReferenceTime == 0:
		return nil, opts, loader.Counts{}, err
	case err != nil:
		Logger.Warningf("ignoring options file: %v", err)
	}
	if config.ReferenceTime != 0 {
		opts.ReferenceTime = config.ReferenceTime
	}
	Logger.Infof("reference time %d, mode %s", opts.ReferenceTime, opts.Mode)

	st := lstore.NewLocalStore(lstore.Options{ReferenceTime: opts.ReferenceTime})
	counts, err := loader.LoadPath(config.DataPath, st, dec)
	if err != nil {
		return nil, opts, counts, err
	}
	return st, opts, counts, nil
}

func (s *RPCServer) init() error {

	// Init logger
	if err := common.InitLoggers(s.config); err != nil {
		return err
	}

	Logger.Infof("Created RPC Server")
	Logger.Infof("%s", s.config.String())

	// Load the data
	st, opts, _, err := Bootstrap(s.config, s.serializer)
	if err != nil {
		return errors.Wrap(err, "bootstrap")
	}

	// The rating mode is timed, skip the audit there
	if s.config.VerifyIndexes && opts.Mode != loader.ModeRating {
		if err := st.Verify(); err != nil {
			return errors.Wrap(err, "index audit")
		}
		Logger.Infof("index audit passed")
	}
	s.store = st

	Logger.Infof("travels setup completed successfully")

	// Configure the transport layer
	s.registerTransportHandler()

	return nil
}

// Serve starts the RPC server
// This function will also initialize the server plus the store and start the transport layer
func (s *RPCServer) Serve() error {
	err := s.init()
	if err != nil {
		return err
	}
	return s.transport.Listen(s.config)
}

// Close stops the transport layer
func (s *RPCServer) Close() error {
	return s.transport.Close()
}
