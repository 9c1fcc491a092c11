// Package redisstore implements goCrypt.UserProvider on Redis.
//
// Each user is a hash at "<prefix>:user:<id>" holding the username, the
// stored credential string and both salts. A string key
// "<prefix>:username:<name>" maps the username to the id. Creation and
// field updates run as Lua scripts so the index and the record never
// disagree.
//
// # What this package must NOT do
//
//   - Interpret or verify credential strings (the engine does that).
//   - Expire user records.
package redisstore
