// Package registrar runs the Dev Center registration sequence of a CI job:
// authenticate, register the branch, register the commit against that
// branch, then publish the completion time as the "time" output.
//
// Run walks an explicit state machine. The first error of any step moves
// it to StateFailed, is reported once through the Sink and stops the run;
// Run itself never returns an error.
package registrar
