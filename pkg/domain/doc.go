// Package domain contains the core model of Arbor: questionnaire templates,
// session state, and the completed session result.
//
// Everything here is pure data plus lookup helpers. The state machine that
// walks a template lives in internal/runtime; persistence lives behind the
// interfaces in pkg/ports.
package domain
