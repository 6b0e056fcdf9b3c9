// Package bitbucket provides types, interfaces, and helpers for working
// with the Bitbucket Cloud v2 API.
//
// # Overview
//
// The bitbucket package defines the domain types (e.g., Repository, Branch,
// PullRequest, Webhook) and the interfaces for resource-oriented clients
// (e.g., RepositoriesClient, WebhooksClient). A concrete implementation is
// provided by the bbclient package, which wires configuration, transport,
// authentication, and rate-limit handling. Most consumers should import
// bbclient to construct a client and then interact with the resource client
// interfaces exposed here.
//
// Getting a client
//
//	import (
//	  "context"
//	  "log"
//
//	  "github.com/fivetwenty-io/bitbucket-client/pkg/bbclient"
//	  "github.com/fivetwenty-io/bitbucket-client/pkg/bitbucket"
//	)
//
//	func example() {
//	  ctx := context.Background()
//	  cli, err := bbclient.New(ctx, &bitbucket.Config{Owner: "acme", Repository: "widgets"})
//	  if err != nil { log.Fatal(err) }
//
//	  branches, err := cli.Branches().List(ctx)
//	  if err != nil { log.Fatal(err) }
//	  _ = branches
//	}
//
// # Pagination
//
// Listing endpoints are paginated. Page is the generic page shape and
// CollectAll drains a listing in server order through a PageResolver.
// Bitbucket Cloud uses two cursor conventions, both supported:
// NumberedPageResolver re-requests with an incremented page query
// parameter, LinkedPageResolver follows the absolute next URL a page
// carries. The resource clients use the right resolver per endpoint, so
// most callers never touch these directly.
//
// # Errors
//
// Failures map onto a small taxonomy callers can branch on with the
// predicate helpers: IsNotFound (404 lookups), IsRequestFailed (other
// non-success statuses, with status and a body excerpt),
// IsCommunicationError (transport failures, wrapping the cause),
// IsInterrupted (propagated cancellation), and IsDomain (application
// invariant violations such as removing a webhook without a UUID).
// Rate limiting (429) never surfaces as an error: requests are retried
// transparently with a fixed backoff until the retry budget is spent or
// the context is cancelled.
package bitbucket
