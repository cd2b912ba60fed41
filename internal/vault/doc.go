// Package vault defines the subvault data model.
//
// The model is pure: record types, their invariants, and derived
// computations (renewal dates, days remaining, cycle progress). It
// knows nothing about encryption or persistence beyond the shape of
// the EncryptedBlob record that the storage layer moves around.
//
// Invariants maintained here:
//   - IDs are unique within their collection
//   - Subscription.CredentialID is a weak reference; deleting a
//     credential clears referencing subscriptions, never deletes them
//   - Subscription.RenewalDate is derived from the start date and
//     billing frequency, never accepted from a caller
package vault
