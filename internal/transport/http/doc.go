// Package http implements HTTP request handlers for the CargoLens web
// service. It provides a thin layer between HTTP transport and business
// logic, keeping handlers focused solely on HTTP concerns.
//
// # Architecture Principles
//
// Handlers in this package follow these principles:
//
//	1. Thin handlers - minimal logic, delegate to services
//	2. HTTP-only concerns - request parsing, response formatting
//	3. Error transformation - convert service errors to HTTP responses
//	4. No business logic - all logic belongs in the service layer
//
// # Request Flow
//
// A typical request flows through these layers:
//
//	HTTP Request → Chi Router → Middleware → Handler → Service
//	                                             ↓
//	HTTP Response ← Handler ← Service Response ←─┘
//
// The analyze endpoint is the only mutating route: it accepts a multipart
// batch of spreadsheet files, runs the analysis pipeline synchronously,
// and answers with the run summary plus a download reference for the
// generated report workbook.
//
// # Error Handling
//
// All errors follow RFC 7807 Problem Details:
//
//	{
//	    "type": "/errors/no-valid-files",
//	    "title": "No Valid Files",
//	    "status": 422,
//	    "detail": "None of the uploaded files contained usable shipment data",
//	    "trace_id": "..."
//	}
//
// # Testing
//
// Handlers are tested using httptest with mocked service interfaces,
// covering success paths, upload policy rejections, and problem responses.
package http
