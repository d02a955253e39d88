package cmd

// DefaultSolverConfigFilename describes the default config filename in a working directory.
const DefaultSolverConfigFilename = "crest.json"
