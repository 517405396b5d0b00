// Package fl33t provides types, interfaces, and helpers for working with the
// fl33t firmware fleet-management REST API.
//
// # Overview
//
// The fl33t package defines the domain records (Session, Train, Fleet, Build,
// Device) and the interfaces for resource-oriented clients (SessionsClient,
// TrainsClient, FleetsClient, BuildsClient, DevicesClient). A concrete
// implementation of these clients is provided by the client package under
// internal/, reachable through the Client interface constructed by
// fl33tclient.New. All resources are namespaced under a team ID and
// authenticated with a bearer session token.
//
// Getting a client
//
//	import (
//	  "context"
//	  "log"
//
//	  "github.com/fl33t/fl33t-go/pkg/fl33t"
//	  "github.com/fl33t/fl33t-go/pkg/fl33tclient"
//	)
//
//	func example() {
//	  ctx := context.Background()
//	  cli, err := fl33tclient.New(&fl33t.Config{TeamID: "team", SessionToken: "token"})
//	  if err != nil { log.Fatal(err) }
//
//	  it := cli.Trains().List(ctx, nil)
//	  for it.HasNext() {
//	    train, err := it.Next()
//	    if err != nil { break }
//	    _ = train
//	  }
//	}
//
// # Records and coercion
//
// Records decode from the API's singular JSON envelopes with strict field
// validation: unknown keys are rejected, enum fields are checked against
// their declared value sets, and timestamp fields accept either an ISO-8601
// string or a falsy "unset" sentinel which is preserved verbatim. Boolean
// fields coerce by truthiness, matching the service's historical contract;
// see TruthyBool for the details.
//
// # Pagination
//
// List endpoints return an Iterator that fetches offset/limit pages lazily.
// Supplying an explicit Offset in PageOptions requests exactly one page;
// otherwise the iterator walks pages until the server-reported total count
// is exhausted.
//
// # Errors
//
// Service errors are represented by a closed set of typed errors:
// InvalidIDError (per resource kind), DuplicateDeviceIDError,
// UnprivilegedTokenError, and APIError. Helpers such as IsInvalidID make it
// easy to branch on the common cases.
package fl33t
