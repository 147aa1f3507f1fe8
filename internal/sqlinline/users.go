package sqlinline

const QListUsers = `--sql e26fe7a6-c8cb-4287-a4c4-a0fc5d0f4e5d
select id, first_name, last_name, email, is_active, annual_payment
from users
order by id;
`

const QSelectUserByID = `--sql 1e1bc40b-cd1c-4aae-b21f-444b79db1e5b
select id, first_name, last_name, email, role_id, plan_id, is_active, annual_payment
from users
where id = $1::bigint;
`

const QUpdateUserStatus = `--sql 283350af-0cf2-4f26-81c3-804444440eac
update users
set is_active = $2::boolean,
    annual_payment = $3::boolean
where id = $1::bigint;
`

const QUpdateUserPlan = `--sql 3bc88aa1-3630-4217-8f01-22372dd19a78
update users
set plan_id = $2::bigint
where id = $1::bigint;
`

const QInsertUser = `--sql 72a6d900-dfb1-4b3d-92d2-010620f81d71
insert into users (first_name, last_name, email, password, role_id, plan_id, is_active, annual_payment)
values ($1::text, $2::text, $3::text, $4::text, $5::bigint, $6::bigint, $7::boolean, $8::boolean)
returning id;
`
