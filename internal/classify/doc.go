// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package classify implements the HTTP client for the emotion
// classification service.
//
// The service exposes a single POST endpoint that accepts a text and a
// model identifier and returns a probability distribution over emotion
// labels. The client performs exactly one request per call; retry and
// queueing policy belong to the caller.
package classify
