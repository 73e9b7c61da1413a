// Package indicator defines the SummaryCard/Indicator record model returned
// by the Dashboard API and the defensive decoder that turns a raw response
// body into typed records without ever failing the caller.
package indicator
