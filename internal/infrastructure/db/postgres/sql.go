package postgres

const insertEventSQL = `
INSERT INTO events (
  id, title, url, contact,
  start_time, end_time, status,
  approved_at, canceled_at, created_at, updated_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
`

const getEventSQL = `
SELECT id, title, url, contact,
       start_time, end_time, status,
       approved_at, canceled_at, created_at, updated_at
FROM events WHERE id = $1
`

const updateEventSQL = `
UPDATE events SET
  title=$2, url=$3, contact=$4,
  start_time=$5, end_time=$6, status=$7,
  approved_at=$8, canceled_at=$9, updated_at=$10
WHERE id=$1
`
