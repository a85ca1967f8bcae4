// Murmur - Social Feed and People Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/murmur

/*
Package supervisor provides process supervision for Murmur using suture v4.

The tree separates the data path from the ops surface:

	RootSupervisor ("murmur")
	├── DataSupervisor ("data-layer")
	│   └── ViewPipelineService (when views.async is enabled)
	└── APISupervisor ("api-layer")
	    └── HTTPServerService (/healthz, /metrics)

Crashed services are restarted with suture's backoff. Canceling the context
passed to Serve shuts the tree down; services that miss the shutdown
timeout are listed by UnstoppedServiceReport.

Supervisor events are logged through sutureslog, which takes a *slog.Logger;
logging.NewSlogLogger bridges it to the process zerolog logger.

# Usage

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(logger), supervisor.DefaultTreeConfig())
	tree.AddDataService(services.NewViewPipelineService(pipeline))
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))
	err = tree.Serve(ctx)

Service wrappers live in the services subpackage.
*/
package supervisor
