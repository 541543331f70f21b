// Package main provides the program that trains a slot-filling tagger on one
// fold of the ATIS dataset. Every epoch is scored on the validation and test
// splits with conlleval, and the checkpoint and reports of the epoch with the
// best validation F1 are kept.
//
// Usage:
//
//	train_atis -fold 3 -epochs 50 -out out/elman -weights weights/best_model.json.lzw
//
// The fold files atis.fold<N>.json.gz are searched in -datadir, or in ./data,
// /tmp/atis and ~/atis when -datadir is empty.
package main
