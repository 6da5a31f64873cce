package tool

// Package tool defines the contract every launchable tool implements: static
// metadata for the launcher, a window factory, and an idempotent launch/cleanup
// lifecycle shared through Base.
