package schema

// SeedAuthorEmail identifies the development author. The unique email index
// keeps it to a single document.
const SeedAuthorEmail = "test@example.com"
