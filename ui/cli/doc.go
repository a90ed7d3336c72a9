// Copyright (c) 2026 ToeiRei
// pybookmarks - bookmark management library
// This source code is licensed under the MIT license found in the LICENSE file.
//
// Package cli implements the command-line interface for pybookmarks using
// Cobra. It wires configuration, i18n and the bookmark store, and provides
// commands that delegate to the pybookmarks library package. CLI code should
// remain thin.
package cli
