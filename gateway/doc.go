// Package gateway is the HTTP client the view uses to reach the backend.
//
// Two calls are supported:
//   - Hello fetches the greeting from GET /api/hello.
//   - SendData posts {"data": ...} to POST /api/data.
//
// Status codes are not inspected. A call succeeds when the response body
// decodes into the expected shape. Failures come back as *Error with Kind
// NetworkFailure (the request was not sent or no response arrived) or
// ParseFailure (the body was not JSON or lacked the expected fields).
package gateway
