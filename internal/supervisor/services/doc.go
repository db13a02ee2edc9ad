// Neighborly - User-User Collaborative Filtering Rating Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/neighborly

/*
Package services adapts neighborly components to suture's context-aware
Serve(ctx) error contract.

  - HTTPServerService runs an *http.Server and drains it on shutdown.
  - ImportService loads a ratings file into the configured store once, then
    asks the supervisor not to restart it.
  - CacheJanitorService periodically drops expired entries from the
    in-process history cache.

Every wrapper implements fmt.Stringer so supervisor events name the service.
*/
package services
