// Package bedrockscan inspects the LevelDB database of Minecraft Bedrock
// worlds.
//
// Every key of the database is decoded into a human readable description:
//   - Global keys (AutonomousEntities, Nether, TheEnd) are printed as-is.
//   - Chunk keys are printed with their chunk coordinates and record tag, plus
//     the sub-chunk index for SubChunkPrefix records.
//   - Keys too short to reach their tag byte are printed as unknown keys.
//
// The database is opened read-only and is never modified.
package bedrockscan
