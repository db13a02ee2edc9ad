// Neighborly - User-User Collaborative Filtering Rating Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/neighborly

/*
Package supervisor runs the long-lived parts of neighborly under a suture v4
supervisor tree.

The tree has two layers so that a crashing maintenance job never takes the
HTTP listener down with it:

	RootSupervisor ("neighborly")
	├── MaintenanceSupervisor ("maintenance-layer")
	│   ├── ImportService (if STORE_IMPORT_PATH is set)
	│   └── CacheJanitorService (if the LRU history cache is enabled)
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

Supervisor events (service failures, backoff, restarts) are logged through
sutureslog, which writes into the zerolog logger via logging.NewSlogLogger.

Typical wiring in main:

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
	    return err
	}
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))
	return tree.Serve(ctx)

The service wrappers live in the services subpackage.
*/
package supervisor
