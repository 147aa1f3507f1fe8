package sqlinline

const QListRestaurants = `--sql 643e790e-77e6-462d-be14-8bdf509e007c
select id, name, city, cuisine, address, zip_code, country_code, description, image_url
from restaurants
order by id;
`

const QRestaurantRatings = `--sql b121e7cc-a60f-41f2-9708-63608b2db015
select restaurant_id, avg(rating)::float8 as rating
from reviews
group by restaurant_id;
`

const QInsertRestaurant = `--sql 1c1601d5-7233-437d-8704-61edb4cfab55
insert into restaurants (name, city, cuisine, address, zip_code, country_code, description, image_url)
values ($1::text, $2::text, $3::text, $4::text, $5::text, $6::text, $7::text, $8::text)
returning id;
`

const QInsertUserRestaurant = `--sql 567afec3-f6c9-4671-b584-85064f29ec01
insert into user_restaurants (user_id, restaurant_id)
values ($1::bigint, $2::bigint);
`
