// Package trainer runs the epoch loop of a slot-filling model: it shuffles the
// training split, feeds every sentence to the model, scores the validation and
// test splits and keeps the checkpoint and reports of the best epoch.
//
// The loop has a fixed budget with retrospective selection: every
// epoch is trained and evaluated, and an epoch is promoted when the promotion
// policy says its metrics beat the best seen so far.
package trainer
