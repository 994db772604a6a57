// Package hive is the RPC transport the scanner probes nodes through.
//
// Client.Call posts a JSON-RPC 2.0 request to the endpoint given on every
// call; there is no shared "current node". Client.Broadcast builds a
// transaction around one operation, references the node's head block,
// serializes it in the chain's binary format, signs the digest with a WIF
// private key (compact secp256k1, canonical form) and submits it through
// condenser_api.broadcast_transaction_synchronous, which answers once the
// transaction is in a block.
//
// Only the two operations the battery broadcasts are supported: transfer and
// custom_json.
package hive
