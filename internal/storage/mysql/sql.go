package mysql

const upsertItinerarySQL = `
INSERT INTO itineraries
  (id, title)
VALUES
  (?, ?)
ON DUPLICATE KEY UPDATE
  title      = VALUES(title),
  updated_at = CURRENT_TIMESTAMP
`

const deletePoisSQL = `DELETE FROM itinerary_pois WHERE itinerary_id = ?`

const insertPoisPrefix = "INSERT INTO itinerary_pois\n  (itinerary_id, day_number, position, poi_id)\nVALUES "

const insertUserSQL = `
INSERT INTO users (email, name, password_hash)
VALUES (?, ?, ?)
`

const getUserSQL = `
SELECT id, email, name, password_hash, created_at
FROM users
WHERE email = ?
`

const insertMissSQL = `
INSERT INTO sync_misses (id, http_status, reason)
VALUES (?, ?, ?)
ON DUPLICATE KEY UPDATE
  http_status = VALUES(http_status),
  reason      = VALUES(reason),
  seen_at     = CURRENT_TIMESTAMP
`

// -----------------------------------------------------------------------------
// READ QUERIES
// -----------------------------------------------------------------------------

// Stops come back pre-ordered so the repo can rebuild days in a single
// pass without sorting.
const getItinerarySQL = `
SELECT
  i.title,
  s.day_number,
  s.poi_id
FROM itineraries i
LEFT JOIN itinerary_pois s ON s.itinerary_id = i.id
WHERE i.id = ?
ORDER BY s.day_number, s.position
`

const listTripsSQL = `
SELECT
  i.id,
  i.title,
  COUNT(DISTINCT s.day_number) AS days,
  COUNT(s.poi_id)              AS stops,
  i.updated_at
FROM itineraries i
LEFT JOIN itinerary_pois s ON s.itinerary_id = i.id
GROUP BY i.id, i.title, i.updated_at
ORDER BY i.updated_at DESC, i.id
LIMIT ?
`
