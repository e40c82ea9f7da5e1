// Package memhunter provides an HTTP client for the MemoryHunter photo-search API.
//
// # Overview
//
// The backend indexes a photo library, answers similarity searches, manages
// monitored folders and runs maintenance jobs. This package wraps every REST
// call the client needs and decodes the JSON payloads into typed structs.
//
// # Architecture
//
//   - client.go: Client, one method per endpoint, request plumbing
//   - types.go: Data structures mirroring the API schema
//   - errors.go: APIError, TransportError, DecodeError and helpers to tell them apart
//   - memhuntertest: in-memory fake backend used by controller tests
//
// # Client Usage
//
//	client, err := memhunter.NewClient("http://127.0.0.1:8000",
//		memhunter.WithPhotosRoot("/app/photos"))
//	if err != nil {
//		log.Fatalf("failed to create client: %v", err)
//	}
//
//	stats, err := client.Stats(ctx)
//	resp, err := client.Search(ctx, memhunter.SearchRequest{Query: "夕阳海滩", TopK: 20})
//
// # Request Handling
//
// All requests:
//   - Use context for cancellation and timeout control
//   - Set Accept, User-Agent: hunter/<version> and a fresh X-Request-ID
//   - Have a 10-second timeout unless WithTimeout overrides it
//   - Are traced through logrus at debug level (failures at warn)
//
// # Error Handling
//
// Failures fall into three groups:
//
//   - *TransportError: no response at all (connection refused, timeout)
//   - *APIError: a non-2xx response, with the backend's {"detail": ...} in Detail
//   - *DecodeError: a 2xx response whose body is not the expected JSON
//
// Reason returns the server detail when there is one so callers can show it
// verbatim and fall back to a generic message otherwise.
//
// # Photos
//
// Search results carry absolute server-side paths. PhotoPath strips the
// configured photos root and escapes each segment to build the public
// /photos/... route, which FetchPhoto downloads.
//
// # Thread Safety
//
// Client is safe for concurrent use.
package memhunter
