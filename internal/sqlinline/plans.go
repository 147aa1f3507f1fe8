package sqlinline

const QListPlans = `--sql 013a2f3a-7f5e-4b9e-a338-878343a86400
select id, name, monthly_fee::float8, yearly_fee::float8, max_number_of_restaurants, description
from plans
order by id;
`

const QSelectPlanByID = `--sql ffb48e3a-47af-4efb-984f-bb3e859ed7f2
select id, name, monthly_fee::float8, yearly_fee::float8, max_number_of_restaurants, description
from plans
where id = $1::bigint;
`

const QUpdatePlan = `--sql aee55b9e-8348-4575-b3b1-ae6171482ed5
update plans
set name = $2::text,
    monthly_fee = $3::numeric,
    yearly_fee = $4::numeric,
    max_number_of_restaurants = $5::int,
    description = $6::text
where id = $1::bigint;
`
