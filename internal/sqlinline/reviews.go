package sqlinline

const QListReviews = `--sql 8b27dca1-3f7b-4afd-87c1-e920bb18a864
select id, restaurant_id, rating, author, comment, created_at
from reviews
order by id;
`

const QDeleteReview = `--sql 1f503a2b-47f9-4ad9-a35f-a2283199e1f5
delete from reviews
where id = $1::bigint;
`
